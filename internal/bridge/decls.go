// Package bridge checks the C shim surface and renders the cgo link file that
// ties internal/ffi to an installed native library.
package bridge

// Kind classifies a declaration in the shim header.
type Kind int

const (
	KindType Kind = iota
	KindFunc
)

func (k Kind) String() string {
	if k == KindFunc {
		return "function"
	}
	return "type"
}

// Declaration is one symbol the Go side of the bridge depends on.
type Declaration struct {
	Name string
	Kind Kind
}

// Declarations is the bridged surface: the adapter enumeration and accessor
// API, nothing else.
var Declarations = []Declaration{
	{Name: "sgb_adapter_t", Kind: KindType},
	{Name: "sgb_status_t", Kind: KindType},
	{Name: "sgb_bluetooth_enabled", Kind: KindFunc},
	{Name: "sgb_get_adapters", Kind: KindFunc},
	{Name: "sgb_adapter_list_free", Kind: KindFunc},
	{Name: "sgb_adapter_identifier", Kind: KindFunc},
	{Name: "sgb_adapter_address", Kind: KindFunc},
	{Name: "sgb_adapter_release", Kind: KindFunc},
	{Name: "sgb_string_free", Kind: KindFunc},
}
