package domain

// Network selects the remote endpoint and the address version bytes that are accepted
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// Networks lists every supported network in display order
var Networks = []Network{NetworkMainnet, NetworkTestnet}

// ParseNetwork converts a string to Network, defaulting to NetworkMainnet
func ParseNetwork(s string) Network {
	switch s {
	case "mainnet":
		return NetworkMainnet
	case "testnet":
		return NetworkTestnet
	default:
		return NetworkMainnet
	}
}

// Valid reports whether n is one of the supported networks
func (n Network) Valid() bool {
	return n == NetworkMainnet || n == NetworkTestnet
}

// Or returns n when it is set, otherwise fallback
func (n Network) Or(fallback Network) Network {
	if n == "" {
		return fallback
	}
	return n
}

func (n Network) String() string {
	return string(n)
}
