// Package store persists configuration blobs addressed by record type and
// slot index, the way the device keeps them in data flash.
package store

import (
	"encoding"
	"errors"
	"fmt"
)

// RecordType selects the kind of blob held in a slot.
type RecordType uint8

const (
	NetInputCfg RecordType = iota + 1
	IotInputCfg
	RootCACertCfg
	DevCertCfg
	PriKeyCfg
	ATCmdCfgType
	ATCmdInfoType
)

func (t RecordType) String() string {
	switch t {
	case NetInputCfg:
		return "NET_INPUT_CFG"
	case IotInputCfg:
		return "IOT_INPUT_CFG"
	case RootCACertCfg:
		return "ROOTCA_CERT_CFG"
	case DevCertCfg:
		return "DEVCERT_CFG"
	case PriKeyCfg:
		return "PRI_KEY_CFG"
	case ATCmdCfgType:
		return "AT_CMD_CFG_TYPE"
	case ATCmdInfoType:
		return "AT_CMD_INFO_TYPE"
	default:
		return fmt.Sprintf("RecordType(%d)", uint8(t))
	}
}

// Store is opaque keyed blob storage.
//
// Write replaces the whole blob in a slot. Read returns ErrNotFound for a
// slot that was never written.
type Store interface {
	Write(data []byte, typ RecordType, slot int) error
	Read(typ RecordType, slot int) ([]byte, error)
}

//go:generate go tool mockgen -source=store.go -destination=mock_store.go -package=store

// Save encodes v and writes it to the slot.
func Save(s Store, typ RecordType, slot int, v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode %s[%d]: %w", typ, slot, err)
	}
	if err := s.Write(data, typ, slot); err != nil {
		return fmt.Errorf("write %s[%d]: %w", typ, slot, err)
	}
	return nil
}

// Load reads the slot into v. A slot that was never written leaves v
// untouched, like reading erased flash into a zeroed record.
func Load(s Store, typ RecordType, slot int, v encoding.BinaryUnmarshaler) error {
	data, err := s.Read(typ, slot)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s[%d]: %w", typ, slot, err)
	}
	if err := v.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("decode %s[%d]: %w", typ, slot, err)
	}
	return nil
}
