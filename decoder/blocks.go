package decoder

// block is one deinterleaved error correction block.
type block struct {
	dataWords int
	words     []byte
}

// deinterleave separates the raw codeword stream into its error
// correction blocks. Codewords are interleaved one per block in round
// robin order, data words first, with the longer blocks contributing
// their extra data word before any EC word.
func deinterleave(raw []byte, version *Version, level ECLevel) ([]block, error) {
	spec := version.ECSpecFor(level)

	blocks := make([]block, 0, spec.blockCount())
	for _, r := range spec.Runs {
		for i := 0; i < r.Count; i++ {
			blocks = append(blocks, block{
				dataWords: r.DataWords,
				words:     make([]byte, r.DataWords+spec.WordsPerBlock),
			})
		}
	}

	total := 0
	for _, b := range blocks {
		total += len(b.words)
	}
	if total != len(raw) {
		return nil, ErrStructure
	}

	// Runs are ordered shortest first, so the longer blocks form a
	// suffix.
	shortLen := len(blocks[0].words)
	longStart := len(blocks)
	for longStart > 0 && len(blocks[longStart-1].words) != shortLen {
		longStart--
	}
	shortData := shortLen - spec.WordsPerBlock

	pos := 0
	for i := 0; i < shortData; i++ {
		for j := range blocks {
			blocks[j].words[i] = raw[pos]
			pos++
		}
	}
	for j := longStart; j < len(blocks); j++ {
		blocks[j].words[shortData] = raw[pos]
		pos++
	}
	for i := shortData; i < shortLen; i++ {
		for j := range blocks {
			at := i
			if j >= longStart {
				at = i + 1
			}
			blocks[j].words[at] = raw[pos]
			pos++
		}
	}

	return blocks, nil
}
