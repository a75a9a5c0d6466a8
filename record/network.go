package record

// Capacities of the NetworkConfig string fields, in bytes.
const (
	InterfaceNameSize = 16
	SSIDSize          = 32
	KeySize           = 64
	APNSize           = 64
	UsernameSize      = 32
	PasswordSize      = 32
)

// Interface selects the network interface the device uses.
type Interface uint8

const (
	Ethernet Interface = iota
	WiFi
	Cellular
)

// Name is the label stored in NetworkConfig.InterfaceName.
func (i Interface) Name() string {
	switch i {
	case Ethernet:
		return "Ethernet"
	case WiFi:
		return "WiFi"
	case Cellular:
		return "Cellular"
	default:
		return ""
	}
}

type AddrMode uint8

const (
	AddrModeNotConfigured AddrMode = iota
	AddrModeStatic
	AddrModeDHCP
)

type Security uint8

const (
	SecurityUnset Security = iota
	SecurityWEP
	SecurityWPA
	SecurityWPA2
	SecurityOpen
)

func (s Security) String() string {
	switch s {
	case SecurityWEP:
		return "WEP"
	case SecurityWPA:
		return "WPA"
	case SecurityWPA2:
		return "WPA2"
	case SecurityOpen:
		return "Open"
	default:
		return "Unknown"
	}
}

type Encryption uint8

const (
	EncryptionUnset Encryption = iota
	EncryptionAuto
	EncryptionTKIP
	EncryptionAES
)

type WiFiMode uint8

const (
	WiFiModeUnset WiFiMode = iota
	WiFiModeClient
	WiFiModeAP
)

type PDPType uint8

const (
	PDPUnset PDPType = iota
	PDPIP
	PDPIPv4v6
)

func (p PDPType) String() string {
	switch p {
	case PDPIP:
		return "IP"
	case PDPIPv4v6:
		return "IPV4V6"
	default:
		return "Unknown PDP type"
	}
}

type AuthType uint8

const (
	AuthNone AuthType = iota
	AuthPAP
	AuthCHAP
)

// StaticAddr holds addresses packed with PackIPv4.
type StaticAddr struct {
	Address uint32
	Mask    uint32
	Gateway uint32
	DNS     uint32
}

type WiFiConfig struct {
	SSID       string
	Key        string
	Channel    uint8
	Encryption Encryption
	Security   Security
	Mode       WiFiMode
}

type CellularConfig struct {
	APN          string
	ContextID    uint8
	PDPType      PDPType
	AirplaneMode bool
	AuthType     AuthType
	Username     string
	Password     string
}

// NetworkConfig is the record stored under NET_INPUT_CFG slot 0.
// Only the sub-record matching Interface is meaningful, and none of the
// address fields are until Valid is set.
type NetworkConfig struct {
	Interface     Interface
	InterfaceName string
	Valid         bool
	AddrMode      AddrMode
	Static        StaticAddr
	WiFi          WiFiConfig
	Cellular      CellularConfig
}

type networkWire struct {
	Interface     uint8
	InterfaceName [InterfaceNameSize]byte
	Valid         uint8
	AddrMode      uint8
	Static        StaticAddr

	SSID       [SSIDSize]byte
	Key        [KeySize]byte
	Channel    uint8
	Encryption uint8
	Security   uint8
	Mode       uint8

	APN          [APNSize]byte
	ContextID    uint8
	PDPType      uint8
	AirplaneMode uint8
	AuthType     uint8
	Username     [UsernameSize]byte
	Password     [PasswordSize]byte
}

// MarshalBinary encodes c into its fixed flash layout.
func (c NetworkConfig) MarshalBinary() ([]byte, error) {
	w := networkWire{
		Interface:    uint8(c.Interface),
		Valid:        boolByte(c.Valid),
		AddrMode:     uint8(c.AddrMode),
		Static:       c.Static,
		Channel:      c.WiFi.Channel,
		Encryption:   uint8(c.WiFi.Encryption),
		Security:     uint8(c.WiFi.Security),
		Mode:         uint8(c.WiFi.Mode),
		ContextID:    c.Cellular.ContextID,
		PDPType:      uint8(c.Cellular.PDPType),
		AirplaneMode: boolByte(c.Cellular.AirplaneMode),
		AuthType:     uint8(c.Cellular.AuthType),
	}
	putString(w.InterfaceName[:], c.InterfaceName)
	putString(w.SSID[:], c.WiFi.SSID)
	putString(w.Key[:], c.WiFi.Key)
	putString(w.APN[:], c.Cellular.APN)
	putString(w.Username[:], c.Cellular.Username)
	putString(w.Password[:], c.Cellular.Password)
	return encode(&w)
}

// UnmarshalBinary decodes a blob produced by MarshalBinary.
func (c *NetworkConfig) UnmarshalBinary(data []byte) error {
	var w networkWire
	if err := decode(data, &w); err != nil {
		return err
	}
	*c = NetworkConfig{
		Interface:     Interface(w.Interface),
		InterfaceName: getString(w.InterfaceName[:]),
		Valid:         w.Valid != 0,
		AddrMode:      AddrMode(w.AddrMode),
		Static:        w.Static,
		WiFi: WiFiConfig{
			SSID:       getString(w.SSID[:]),
			Key:        getString(w.Key[:]),
			Channel:    w.Channel,
			Encryption: Encryption(w.Encryption),
			Security:   Security(w.Security),
			Mode:       WiFiMode(w.Mode),
		},
		Cellular: CellularConfig{
			APN:          getString(w.APN[:]),
			ContextID:    w.ContextID,
			PDPType:      PDPType(w.PDPType),
			AirplaneMode: w.AirplaneMode != 0,
			AuthType:     AuthType(w.AuthType),
			Username:     getString(w.Username[:]),
			Password:     getString(w.Password[:]),
		},
	}
	return nil
}
