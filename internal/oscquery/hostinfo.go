package oscquery

// Extensions advertises which optional OSCQuery attributes this server
// includes in its namespace documents.
type Extensions struct {
	Access   bool `json:"ACCESS"`
	ClipMode bool `json:"CLIPMODE"`
	Range    bool `json:"RANGE"`
	Type     bool `json:"TYPE"`
	Value    bool `json:"VALUE"`
}

// HostInfo is the HOST_INFO document describing this process. It is built
// once at startup and served verbatim.
type HostInfo struct {
	Name         string     `json:"NAME"`
	OSCPort      int        `json:"OSC_PORT"`
	OSCIP        string     `json:"OSC_IP"`
	OSCTransport string     `json:"OSC_TRANSPORT"`
	Extensions   Extensions `json:"EXTENSIONS"`
}

// NewHostInfo builds a HostInfo for a UDP OSC endpoint with the standard
// extension set.
func NewHostInfo(name, oscIP string, oscPort int) *HostInfo {
	return &HostInfo{
		Name:         name,
		OSCPort:      oscPort,
		OSCIP:        oscIP,
		OSCTransport: "UDP",
		Extensions: Extensions{
			Access:   true,
			ClipMode: true,
			Range:    true,
			Type:     true,
			Value:    true,
		},
	}
}

// NewServerTree builds the static namespace this process serves: a root
// container with an empty /avatar/parameters branch that peers can query.
func NewServerTree(description string) *Node {
	params := NewBranch("/avatar/parameters", "avatar parameters", nil)
	avatar := NewBranch("/avatar", "avatar", map[string]*Node{
		"parameters": params,
	})
	return NewBranch("/", description, map[string]*Node{
		"avatar": avatar,
	})
}
