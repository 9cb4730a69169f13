// Package faceoffservice implements the character face-off service inside the
// arena context.
//
// The module owns candidate pair selection, the one-shot vote settlement
// transaction, and character ingestion from the external EVE directory. It
// keeps business rules in application/domain layers and isolates
// infrastructure concerns behind ports and adapters.
package faceoffservice
