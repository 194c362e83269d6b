package archive

import "encoding/json"

// Metadata is an archive's descriptive record: locale, human-readable
// titles, and the member names of the acceptor and error-model transducers
// it carries. Serialized as JSON rather than the upstream XML dialect,
// since no XML library is available anywhere in the dependency pack; JSON
// is the pack's one structured-serialization format (transducer.Alphabet
// uses it too).
type Metadata struct {
	Info     Info         `json:"info"`
	Acceptor AcceptorInfo `json:"acceptor"`
	Errmodel ErrmodelInfo `json:"errmodel"`
}

// Info carries locale and descriptive text about the speller as a whole.
type Info struct {
	Locale      string   `json:"locale"`
	Title       []string `json:"title"`
	Description string   `json:"description"`
	Producer    string   `json:"producer"`
}

// AcceptorInfo names and describes the lexicon transducer member.
type AcceptorInfo struct {
	Type        string   `json:"type"`
	ID          string   `json:"id"`
	Title       []string `json:"title"`
	Description string   `json:"description"`
}

// ErrmodelInfo names and describes the error-model transducer member.
type ErrmodelInfo struct {
	ID          string   `json:"id"`
	Title       []string `json:"title"`
	Description string   `json:"description"`
}

// ParseMetadata decodes an archive's metadata record.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &MemberError{Member: "metadata", Err: err}
	}
	return &m, nil
}
