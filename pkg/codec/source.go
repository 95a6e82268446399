package codec

import "net/url"

// CandidateSource supplies an alternative encoded payload when the primary
// candidate handed to [Decode] looks implausible. Candidate returns "" when
// the source has nothing to offer.
type CandidateSource interface {
	Candidate() string
}

// SourceFunc adapts a function to [CandidateSource].
type SourceFunc func() string

// Candidate calls f.
func (f SourceFunc) Candidate() string { return f() }

// Static returns a source that always offers s.
func Static(s string) CandidateSource {
	return SourceFunc(func() string { return s })
}

// QueryParam offers the value of the query parameter key in u.
func QueryParam(u *url.URL, key string) CandidateSource {
	return SourceFunc(func() string {
		if u == nil {
			return ""
		}
		return u.Query().Get(key)
	})
}

// Fragment offers the fragment of u, without the leading '#'.
func Fragment(u *url.URL) CandidateSource {
	return SourceFunc(func() string {
		if u == nil {
			return ""
		}
		return u.Fragment
	})
}
