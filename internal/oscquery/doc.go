// Package oscquery implements the OSCQuery namespace document model.
//
// An OSCQuery namespace is a recursive JSON tree: container nodes carry a
// CONTENTS object mapping child names to nodes, and parameter nodes carry
// a VALUE array plus type metadata. This package models that tree as a
// closed branch/leaf union, handles the JSON wire form, and provides the
// flattening used to turn a remote namespace into a flat address-to-value
// map.
//
// # Document Shape
//
// A namespace document node looks like:
//
//	{
//	  "DESCRIPTION": "root node",
//	  "FULL_PATH": "/",
//	  "ACCESS": 0,
//	  "CONTENTS": {
//	    "avatar": {
//	      "FULL_PATH": "/avatar",
//	      "CONTENTS": { ... }
//	    }
//	  }
//	}
//
// Leaves replace CONTENTS with VALUE, TYPE, and optional RANGE/CLIPMODE
// metadata, which are passed through opaquely.
//
// # Branch/Leaf Invariant
//
// A node is exactly one of branch (has contents) or leaf (may have a
// value). The variant is chosen at construction or decode time and cannot
// change afterwards; documents that carry both CONTENTS and VALUE decode
// as branches with the value discarded.
//
// The HOST_INFO companion document (HostInfo) describes the OSC transport
// endpoint paired with the namespace and is served verbatim.
package oscquery
