package record

// Capacities of the cloud identity fields, in bytes.
const (
	ProjectIDSize  = 64
	EndpointSize   = 128
	DeviceIDSize   = 64
	RegionSize     = 32
	RegistryIDSize = 64
)

// CloudConfig identifies the device in the cloud IoT service.
type CloudConfig struct {
	ProjectID  string
	Endpoint   string
	DeviceID   string
	Region     string
	RegistryID string
}

// CertLengths records the decoded size of each stored certificate blob.
type CertLengths struct {
	RootCA  uint32
	DevCert uint32
	PrivKey uint32
}

// IotConfig is the record stored under IOT_INPUT_CFG slot 0.
type IotConfig struct {
	Cloud CloudConfig
	Certs CertLengths
	Valid bool
}

type iotWire struct {
	ProjectID  [ProjectIDSize]byte
	Endpoint   [EndpointSize]byte
	DeviceID   [DeviceIDSize]byte
	Region     [RegionSize]byte
	RegistryID [RegistryIDSize]byte
	Certs      CertLengths
	Valid      uint8
}

func (c IotConfig) MarshalBinary() ([]byte, error) {
	w := iotWire{
		Certs: c.Certs,
		Valid: boolByte(c.Valid),
	}
	putString(w.ProjectID[:], c.Cloud.ProjectID)
	putString(w.Endpoint[:], c.Cloud.Endpoint)
	putString(w.DeviceID[:], c.Cloud.DeviceID)
	putString(w.Region[:], c.Cloud.Region)
	putString(w.RegistryID[:], c.Cloud.RegistryID)
	return encode(&w)
}

func (c *IotConfig) UnmarshalBinary(data []byte) error {
	var w iotWire
	if err := decode(data, &w); err != nil {
		return err
	}
	*c = IotConfig{
		Cloud: CloudConfig{
			ProjectID:  getString(w.ProjectID[:]),
			Endpoint:   getString(w.Endpoint[:]),
			DeviceID:   getString(w.DeviceID[:]),
			Region:     getString(w.Region[:]),
			RegistryID: getString(w.RegistryID[:]),
		},
		Certs: w.Certs,
		Valid: w.Valid != 0,
	}
	return nil
}
