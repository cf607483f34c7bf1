package oscquery

import (
	"encoding/json"
	"testing"
)

func TestNode_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantLeaf bool
		wantPath string
	}{
		{
			name:     "branch with contents",
			doc:      `{"FULL_PATH":"/avatar","ACCESS":0,"CONTENTS":{"parameters":{"FULL_PATH":"/avatar/parameters","CONTENTS":{}}}}`,
			wantLeaf: false,
			wantPath: "/avatar",
		},
		{
			name:     "leaf with value",
			doc:      `{"FULL_PATH":"/avatar/parameters/Voice","ACCESS":3,"TYPE":"f","VALUE":[0.5]}`,
			wantLeaf: true,
			wantPath: "/avatar/parameters/Voice",
		},
		{
			name:     "leaf without value",
			doc:      `{"FULL_PATH":"/avatar/change","ACCESS":2,"TYPE":"s"}`,
			wantLeaf: true,
			wantPath: "/avatar/change",
		},
		{
			name: "contents wins over stray value",
			// Some generators emit both; CONTENTS decides the variant.
			doc:      `{"FULL_PATH":"/x","CONTENTS":{"y":{"FULL_PATH":"/x/y","VALUE":[1]}},"VALUE":[2]}`,
			wantLeaf: false,
			wantPath: "/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Node
			if err := json.Unmarshal([]byte(tt.doc), &n); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if n.IsLeaf() != tt.wantLeaf {
				t.Errorf("IsLeaf() = %v, want %v", n.IsLeaf(), tt.wantLeaf)
			}
			if n.FullPath != tt.wantPath {
				t.Errorf("FullPath = %q, want %q", n.FullPath, tt.wantPath)
			}
			if n.IsLeaf() && n.Contents() != nil {
				t.Error("leaf node returned non-nil Contents()")
			}
			if !n.IsLeaf() && n.Value() != nil {
				t.Error("branch node returned non-nil Value()")
			}
		})
	}
}

func TestNode_MarshalJSON(t *testing.T) {
	leaf := NewLeaf("/avatar/parameters/VSync", "", "T", AccessReadWrite, []any{true})
	branch := NewBranch("/avatar/parameters", "", map[string]*Node{"VSync": leaf})

	data, err := json.Marshal(branch)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("re-decode error = %v", err)
	}
	if _, ok := raw["CONTENTS"]; !ok {
		t.Error("branch document missing CONTENTS")
	}
	if _, ok := raw["VALUE"]; ok {
		t.Error("branch document must not carry VALUE")
	}

	// Round-trip preserves the variant and the leaf value.
	var back Node
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("round-trip error = %v", err)
	}
	got := back.Child("VSync")
	if got == nil || !got.IsLeaf() {
		t.Fatal("round-trip lost the VSync leaf")
	}
	if v := got.Value(); len(v) != 1 || v[0] != true {
		t.Errorf("round-trip leaf value = %v, want [true]", v)
	}
}

func TestNode_AddChildToLeaf(t *testing.T) {
	leaf := NewLeaf("/a", "", "i", AccessReadOnly, []any{1})
	if err := leaf.AddChild("b", NewBranch("/a/b", "", nil)); err == nil {
		t.Error("AddChild() on a leaf should fail")
	}
}

func TestFind(t *testing.T) {
	tree := NewServerTree("test")

	tests := []struct {
		path string
		want string // expected FullPath, "" for nil
	}{
		{"/", "/"},
		{"", "/"},
		{"/avatar", "/avatar"},
		{"/avatar/parameters", "/avatar/parameters"},
		{"/avatar/missing", ""},
		{"/nope", ""},
	}

	for _, tt := range tests {
		got := Find(tree, tt.path)
		if tt.want == "" {
			if got != nil {
				t.Errorf("Find(%q) = %v, want nil", tt.path, got.FullPath)
			}
			continue
		}
		if got == nil || got.FullPath != tt.want {
			t.Errorf("Find(%q) = %v, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFind_NilRoot(t *testing.T) {
	if Find(nil, "/avatar") != nil {
		t.Error("Find(nil, ...) should return nil")
	}
}
