package orchestration

import "strings"

// Sentence fragments at or below this length keep buffering, so
// abbreviations and stray punctuation do not get cut off as sentences.
const minSentenceLength = 5

const sentenceTerminators = ".!?"

// sentenceSplitter cuts a streamed reply into sentences for synthesis
// while passing every delta through untouched. Deltas are appended to a
// buffer and a sentence is emitted whenever a delta carries terminating
// punctuation and the trimmed buffer is long enough to be a real
// sentence.
type sentenceSplitter struct {
	buffer strings.Builder

	onDelta    func(delta string)
	onSentence func(sentence string)
}

func newSentenceSplitter(onDelta func(string), onSentence func(string)) *sentenceSplitter {
	return &sentenceSplitter{
		onDelta:    onDelta,
		onSentence: onSentence,
	}
}

func (s *sentenceSplitter) Push(delta string) {
	if s.onDelta != nil {
		s.onDelta(delta)
	}

	s.buffer.WriteString(delta)

	if !strings.ContainsAny(delta, sentenceTerminators) {
		return
	}

	sentence := strings.TrimSpace(s.buffer.String())
	if len(sentence) <= minSentenceLength {
		return
	}

	s.buffer.Reset()
	s.onSentence(sentence)
}

// Flush emits whatever is left in the buffer as a final sentence, even
// below the length threshold. Called once the reply stream completes.
func (s *sentenceSplitter) Flush() {
	sentence := strings.TrimSpace(s.buffer.String())
	s.buffer.Reset()
	if sentence == "" {
		return
	}

	s.onSentence(sentence)
}
