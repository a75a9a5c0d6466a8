package record

const (
	// ATFieldSize is the array size of the command and response fields.
	ATFieldSize = 128
	// MaxATFieldLen is the longest command or response the recorder accepts.
	MaxATFieldLen = 125
	// MaxRetryDelay is the largest retry delay in milliseconds.
	MaxRetryDelay = 2000
)

// ATCommand is one catalog entry, stored under AT_CMD_INFO_TYPE at the slot
// equal to its sequence number.
type ATCommand struct {
	Command    string
	Response   string // expected substring, case-sensitive
	WaitTime   uint32 // ms
	RetryCount uint8
	RetryDelay uint16 // ms
}

type atCommandWire struct {
	Command    [ATFieldSize]byte
	Response   [ATFieldSize]byte
	WaitTime   uint32
	RetryCount uint8
	_          uint8
	RetryDelay uint16
}

func (c ATCommand) MarshalBinary() ([]byte, error) {
	w := atCommandWire{
		WaitTime:   c.WaitTime,
		RetryCount: c.RetryCount,
		RetryDelay: c.RetryDelay,
	}
	putString(w.Command[:], c.Command)
	putString(w.Response[:], c.Response)
	return encode(&w)
}

func (c *ATCommand) UnmarshalBinary(data []byte) error {
	var w atCommandWire
	if err := decode(data, &w); err != nil {
		return err
	}
	*c = ATCommand{
		Command:    getString(w.Command[:]),
		Response:   getString(w.Response[:]),
		WaitTime:   w.WaitTime,
		RetryCount: w.RetryCount,
		RetryDelay: w.RetryDelay,
	}
	return nil
}
