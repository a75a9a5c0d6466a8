package wizard

import (
	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

// IoT service sub-menu choices.
const (
	iotCloud = 1
	iotCerts = 2
	iotExit  = 3
)

// cloud runs the IoT service sub-menu and stores the IoT record on exit if
// any of its menus was visited.
func (s *Session) cloud() error {
	for {
		choice, err := s.choose(
			"\r\n 1. Google IoT Core Setting Menu\r\n 2. Device Certificate/Keys Setting Menu\r\n 3. Exit\r\n"+
				"\r\n Please Enter Your Choice:>",
			"123", "Invalid Input !!!\r\n")
		if err != nil {
			return err
		}

		switch choice {
		case iotCloud:
			if err := s.cloudSettings(); err != nil {
				return err
			}
			s.iot.Valid = true
		case iotCerts:
			if err := s.certMenu(); err != nil {
				return err
			}
			s.iot.Valid = true
		case iotExit:
			return s.saveIot()
		}
	}
}

func (s *Session) saveIot() error {
	if !s.iot.Valid {
		return nil
	}
	if err := store.Save(s.store, store.IotInputCfg, 0, s.iot); err != nil {
		return s.fatal("\r\nFlash Write Failed!!!\r\n", err)
	}
	s.logger.Info("IoT service configuration stored", "project", s.iot.Cloud.ProjectID, "device", s.iot.Cloud.DeviceID)
	s.term.Print("\r\nDevice Certificate information stored in flash\r\n")
	return nil
}

// cloudSettings edits the cloud identity fields one at a time.
func (s *Session) cloudSettings() error {
	fields := map[byte]struct {
		prompt   string
		dst      *string
		capacity int
	}{
		'1': {"\r\nEnter Project ID: ", &s.iot.Cloud.ProjectID, record.ProjectIDSize},
		'2': {"\r\nEnter Endpoint information: ", &s.iot.Cloud.Endpoint, record.EndpointSize},
		'3': {"\r\nEnter Device ID: ", &s.iot.Cloud.DeviceID, record.DeviceIDSize},
		'4': {"\r\nEnter Cloud Region: ", &s.iot.Cloud.Region, record.RegionSize},
		'5': {"\r\nEnter Registry ID: ", &s.iot.Cloud.RegistryID, record.RegistryIDSize},
	}

	for {
		s.term.Print("\r\n")
		s.term.Print("\r\n ############ Google Cloud Settings Menu ###############\r\n")
		s.term.Print("\r\n 1. Enter Project Id:\r\n 2. Enter Endpoint information:\r\n 3. Enter Device Id:\r\n")
		s.term.Print(" 4. Enter Cloud Region:\r\n 5. Enter Registry Id:\r\n 6. Exit\r\n")
		line, err := s.ask("\r\n Please Enter Your Choice:>")
		if err != nil {
			return err
		}

		c := firstByte(line)
		if c == '6' {
			return nil
		}
		f, ok := fields[c]
		if !ok {
			s.term.Print("Invalid Input !!! \r\n")
			continue
		}
		v, err := s.ask(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = record.Clip(v, f.capacity)
	}
}
