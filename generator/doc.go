// Package generator enumerates framed feelgood files.
//
// A run is described by a Config: the width of each section, the number of
// files requested and the first enumeration index. New validates the
// configuration eagerly and returns a Generator positioned at the start index.
//
//	g, err := generator.New(generator.Config{
//	    SectionLengths: []int{1},
//	    Count:          3,
//	})
//	if err != nil {
//	    return err // matches errs.ErrInvalidConfig
//	}
//	for _, f := range g.All() {
//	    // f.Data is FE E1 90 0D 00 followed by 00, 01, 02
//	    sink.Write(f.Name(), f.Data)
//	}
//
// # Enumeration
//
// File n of a run encodes index StartIndex+n with the odometer mapping of
// package section over the total section width L. The run ends after Count
// files or after index 256^L - 1, whichever comes first. A Count that does
// not fit in the remaining space is clamped, not rejected; Clamped reports it.
//
// Uniqueness is structural: distinct indices give distinct files, so the
// generator keeps no history and its memory stays O(L).
//
// # Layouts
//
// LayoutRaw writes the L odometer bytes directly after the header, split
// across sections most significant digits first. LayoutTLV additionally
// prefixes each section with a constant tag byte and its one-byte length.
package generator
