// Package share turns bouquets into links and links back into bouquets.
//
// A share link carries the encoded bouquet in the data query parameter:
//
//	https://bouq.link/?data=N4IgLiBcIM4...
//
// Older links put the payload in the fragment instead, in either the
// compressed or the base64 generation. [Parse] accepts both placements as
// well as a bare payload.
//
// [Shortener] optionally passes a link through an is.gd style URL
// shortening service. Shortening is best effort: on any failure the
// original link is returned unchanged.
package share
