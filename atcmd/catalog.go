package atcmd

import (
	"errors"
	"fmt"

	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

// LoadCount reads the stored catalog length. A catalog that was never
// stored has length 0.
func LoadCount(st store.Store) (uint8, error) {
	data, err := st.Read(store.ATCmdCfgType, 0)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read catalog length: %w", err)
	}
	if len(data) == 0 {
		return 0, nil
	}
	return data[0], nil
}

// List returns the stored catalog in slot order. It stops early at the
// first slot that holds no entry.
func List(st store.Store) ([]record.ATCommand, error) {
	count, err := LoadCount(st)
	if err != nil {
		return nil, err
	}

	entries := make([]record.ATCommand, 0, count)
	for slot := range int(count) {
		var e record.ATCommand
		data, err := st.Read(store.ATCmdInfoType, slot)
		if errors.Is(err, store.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog entry %d: %w", slot, err)
		}
		if err := e.UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("decode catalog entry %d: %w", slot, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LoadCount loads the stored catalog length into the session counter.
// A store failure is unrecoverable.
func (s *Session) LoadCount() (uint8, error) {
	count, err := LoadCount(s.store)
	if err != nil {
		return 0, s.fatal("\r\nFailed to read the sq_number from internal flash\r\n", err)
	}
	s.seq = count
	return count, nil
}
