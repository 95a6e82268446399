// Package io reads and writes bouquets as plain JSON documents.
//
// The document uses the full field names of the oldest link format:
//
//	{
//	  "themeId": "soft-swiss",
//	  "flowers": [
//	    {"id": "a1", "flowerId": "rose", "x": 50, "y": 55, "rotation": 0, "scale": 1}
//	  ],
//	  "letter": "Happy birthday",
//	  "sender": "Sam"
//	}
//
// Use [ReadJSON] or [ImportJSON] to load a document and [WriteJSON] or
// [ExportJSON] to save one. A file written by [WriteJSON] can be read back
// by [ReadJSON] and encoded into a share link unchanged.
//
// Missing fields are filled the way the editor fills them: an absent theme
// becomes the default theme, an absent flower list becomes empty and
// flowers without an id get a fresh one.
package io
