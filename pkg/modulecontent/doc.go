// Package modulecontent keeps a structured training-module document
// consistent across two independently-failing stores: a relational record
// and a canonical snapshot in object storage.
//
// The save path writes both stores and relocates provisionally-uploaded
// assets once the real module identifier is known. The load path runs an
// ordered fallback chain — relational content, linked module, canonical
// snapshot, legacy export — and never fails a read because content is
// missing; only a missing module record is an error.
//
// Two content shapes exist historically: the current two-section document
// (training and assessment) and a legacy flat slide array, migrated on read
// and never written back. An even older flat-text export format is
// synthesized into structured elements during recovery.
package modulecontent
