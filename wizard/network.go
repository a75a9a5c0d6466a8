package wizard

import (
	"context"

	"i4.energy/across/cellwiz/console"
	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

type netState int

const (
	netInterfaceSelect netState = iota
	netWiFiConfig
	netCellularConfig
	netAddrModeConfig
	netExit
)

// Interface selection choices.
const (
	choiceEthernet = 1
	choiceWiFi     = 2
	choiceCellular = 3
	choiceNetExit  = 4
)

// network runs the network wizard until a configuration was stored or the
// operator left it.
func (s *Session) network(ctx context.Context) error {
	state := netInterfaceSelect
	for state != netExit {
		var err error
		switch state {
		case netInterfaceSelect:
			state, err = s.selectInterface()
		case netWiFiConfig:
			state, err = s.wifi()
		case netCellularConfig:
			state, err = s.cellular(ctx)
		case netAddrModeConfig:
			state, err = s.addrMode()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) selectInterface() (netState, error) {
	s.term.Print("\r\nNetwork Interface Selection:\r\n 1. Ethernet\r\n 2. Wi-Fi\r\n 3. Cellular\r\n 4. Exit\r\n")
	s.term.Print("\r\n Please Enter Your Choice:")
	s.term.Print(">")
	line, err := s.term.ReadLine()
	if err != nil {
		return netInterfaceSelect, err
	}

	s.term.Print("\r\nEntered Network Interface: ")
	switch firstByte(line) {
	case '1':
		s.term.Print("Ethernet\r\n")
	case '2':
		s.term.Print("Wi-Fi\r\n")
	case '3':
		s.term.Print("Cellular\r\n")
	case '4':
		s.term.Print("\r\n")
	default:
		s.term.Print("Invalid Argument\r\n")
	}

	switch console.Atoi(line) {
	case choiceEthernet:
		s.selectNet(record.Ethernet)
		return netAddrModeConfig, nil
	case choiceWiFi:
		s.selectNet(record.WiFi)
		return netWiFiConfig, nil
	case choiceCellular:
		s.selectNet(record.Cellular)
		return netCellularConfig, nil
	case choiceNetExit:
		return netExit, nil
	default:
		s.term.Print("\r\nInvalid Input !!!\r\n")
		return netInterfaceSelect, nil
	}
}

func (s *Session) selectNet(i record.Interface) {
	s.net.Valid = true
	s.net.Interface = i
	s.net.InterfaceName = i.Name()
}

// wifi collects the Wi-Fi credentials. A single invalid character as the
// security choice fails the step; a longer answer leaves security unset.
func (s *Session) wifi() (netState, error) {
	s.net.WiFi.SSID = ""
	s.net.WiFi.Key = ""

	s.term.Print("\r\n Wi-Fi Configuration")
	ssid, err := s.ask("\r\nEnter the SSID associated with the Network\r\n>")
	if err != nil {
		return netWiFiConfig, err
	}
	s.net.WiFi.SSID = record.Clip(ssid, record.SSIDSize)

	key, err := s.ask("\r\nEnter the passphrase \r\n>")
	if err != nil {
		return netWiFiConfig, err
	}
	s.net.WiFi.Key = record.Clip(key, record.KeySize)

	s.term.Print("\r\n Enter Security Type\r\n 1. WEP\r\n 2. WPA\r\n 3. WPA2\r\n 4. None\r\n")
	sec, err := s.ask("Please Enter Your Choice\r\n>")
	if err != nil {
		return netWiFiConfig, err
	}

	s.net.WiFi.Channel = 6
	s.net.WiFi.Encryption = record.EncryptionAuto
	s.net.WiFi.Mode = record.WiFiModeClient

	s.term.Print("\r\nEntered Security Type: ")
	if len(sec) == 1 {
		switch sec[0] {
		case '1':
			s.term.Print("WEP\r\n")
			s.net.WiFi.Security = record.SecurityWEP
		case '2':
			s.term.Print("WPA\r\n")
			s.net.WiFi.Security = record.SecurityWPA
		case '3':
			s.term.Print("WPA2\r\n")
			s.net.WiFi.Security = record.SecurityWPA2
		case '4':
			s.term.Print("None\r\n")
			s.net.WiFi.Security = record.SecurityOpen
		default:
			s.term.Print("Invalid Input\r\n")
			return netWiFiConfig, nil
		}
	}
	return netAddrModeConfig, nil
}

// addrMode asks for DHCP or static addressing and stores the network
// record. Anything but a single 1 or 2 asks again.
func (s *Session) addrMode() (netState, error) {
	s.term.Print("\r\n Enter IP Address Configuration Mode\r\n 1. Static\r\n 2. DHCP\r\n")
	line, err := s.ask("Please Enter Your Choice\r\n>")
	if err != nil {
		return netAddrModeConfig, err
	}

	mode := record.AddrModeNotConfigured
	if len(line) == 1 {
		switch line[0] {
		case '1':
			s.term.Print("\r\nEntered IP Configuration Mode: Static\r\n")
			mode = record.AddrModeStatic
		case '2':
			s.term.Print("\r\nEntered IP Configuration Mode: DHCP\r\n")
			mode = record.AddrModeDHCP
		default:
			s.term.Print("\r\nEntered IP Configuration Mode: ")
		}
	}
	if mode == record.AddrModeNotConfigured {
		return netAddrModeConfig, nil
	}

	s.net.AddrMode = mode
	if mode == record.AddrModeStatic {
		if err := s.staticAddr(); err != nil {
			return netAddrModeConfig, err
		}
	}

	if err := store.Save(s.store, store.NetInputCfg, 0, s.net); err != nil {
		return netExit, s.fatal("NETCFG Flash Write Failed\r\n", err)
	}
	s.logger.Info("network configuration stored", "interface", s.net.InterfaceName, "addr_mode", mode)
	s.term.Print("Network Configuration stored in flash\r\n")
	return netExit, nil
}

// staticAddr collects the four static addresses. A malformed address is
// reported and the same field is asked again.
func (s *Session) staticAddr() error {
	fields := []struct {
		prompt  string
		invalid string
		dst     *uint32
	}{
		{"\r\nEnter the IP Address:\r\n>", "Invalid IP address\r\n", &s.net.Static.Address},
		{"\r\nEnter Network Mask: \r\n>", "Invalid network mask\r\n", &s.net.Static.Mask},
		{"\r\nEnter Gateway:\r\n>", "Invalid Gateway address\r\n", &s.net.Static.Gateway},
		{"\r\nEnter DNS:\r\n>", "Invalid DNS address\r\n", &s.net.Static.DNS},
	}

	for _, f := range fields {
		for {
			line, err := s.ask(f.prompt)
			if err != nil {
				return err
			}
			addr, err := record.ParseIPv4(line)
			if err != nil {
				s.term.Print(f.invalid)
				continue
			}
			*f.dst = addr
			break
		}
	}
	return nil
}

func firstByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}
