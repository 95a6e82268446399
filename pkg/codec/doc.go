// Package codec converts a bouquet to and from the compact, URL-safe string
// carried in share links.
//
// # Generations
//
// Three wire generations exist and every one of them must keep decoding,
// because links that were shared once are expected to open forever:
//
//   - [LegacyBase64Format]: full field names, JSON percent-encoded and then
//     base64 encoded. The oldest links used this.
//   - [CompressedFullFormat]: full field names, LZ-string compressed into the
//     URI-component alphabet.
//   - [CompressedMinifiedFormat]: single-letter field names, numbers rounded
//     to one decimal, LZ-string compressed. [Encode] always writes this one.
//
// # Decoding
//
// [Decode] runs one decoder per generation in a fixed priority order and
// returns the first success. Failures are silent: malformed, truncated or
// foreign input yields (nil, false) and never panics. [DecodeFormat] is the
// verbose variant that reports the matched generation or the reason every
// attempt failed.
//
// A payload can reach the decoder from more than one place (a URL fragment in
// old links, a query parameter in new ones). When the first candidate looks
// implausible, Decode asks the injected [CandidateSource] values for a
// replacement, so the package itself never touches a URL or page location.
//
//	st, ok := codec.Decode(u.Fragment, codec.QueryParam(u, "data"))
//	if !ok {
//	    // show an empty bouquet
//	}
package codec
