package wizard

import (
	"context"
	"errors"

	"i4.energy/across/cellwiz/atcmd"
	"i4.energy/across/cellwiz/console"
	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

// Cellular menu choices.
const (
	cellProvisioning = 1
	cellSIMConfig    = 2

	cellManual = 1
	cellAuto   = 2

	autoStoredList = 1
)

const (
	minContextID = 1
	maxContextID = 5
)

// cellular runs the cellular main menu: provisioning stores the network
// record, SIM configuration talks to the modem and stores nothing here.
func (s *Session) cellular(ctx context.Context) (netState, error) {
	choice, err := s.choose(
		"\r\n################ Cellular Modem Config Menu #################\r\n"+
			"\r\n 1. Start Provisioning \r\n 2. Start SIM configuration \r\n"+
			"\r\n Enter Your Choice: ",
		"12", "Invalid Choice !!!\r\n")
	if err != nil {
		return netCellularConfig, err
	}

	switch choice {
	case cellSIMConfig:
		if err := s.simConfig(ctx); err != nil {
			return netExit, err
		}
		return netExit, nil

	case cellProvisioning:
		ok, err := s.provision()
		if err != nil || !ok {
			return netCellularConfig, err
		}
		if err := store.Save(s.store, store.NetInputCfg, 0, s.net); err != nil {
			return netExit, s.fatal("\r\nFlash Write Failed!!!\r\n", err)
		}
		s.logger.Info("cellular provisioning stored", "apn", s.net.Cellular.APN, "context_id", s.net.Cellular.ContextID)
		return netExit, nil
	}
	return netCellularConfig, nil
}

// provision collects APN, context ID and PDP type. It reports false as soon
// as one of them is unusable.
func (s *Session) provision() (bool, error) {
	s.term.Print("\r\n Cellular Provisioning")
	apn, err := s.ask("\r\n Enter the APN associated with the Cellular Provider\r\n>")
	if err != nil {
		return false, err
	}
	if apn == "" {
		return false, nil
	}
	s.net.Cellular.APN = record.Clip(apn, record.APNSize)

	cid, err := s.ask("\r\nEnter Context ID: Valid range is 1 to 5. \r\n>")
	if err != nil {
		return false, err
	}
	if len(cid) != 1 {
		return false, nil
	}
	s.net.Cellular.ContextID = uint8(console.Atoi(cid))
	if s.net.Cellular.ContextID < minContextID || s.net.Cellular.ContextID > maxContextID {
		return false, nil
	}

	s.term.Print("\r\n Enter PDP Type\r\n 1. IP\r\n 2. IPV4V6\r\n")
	pdp, err := s.ask("Please enter your choice\r\n>")
	if err != nil {
		return false, err
	}
	if len(pdp) != 1 {
		return false, nil
	}
	s.term.Print("\r\nEntered PDP Type: ")
	switch pdp[0] {
	case '1':
		s.term.Print("IP\r\n")
		s.net.Cellular.PDPType = record.PDPIP
	case '2':
		s.term.Print("IPV4V6\r\n")
		s.net.Cellular.PDPType = record.PDPIPv4v6
	default:
		return false, nil
	}

	s.net.Cellular.AirplaneMode = false
	s.net.Cellular.AuthType = record.AuthNone
	s.net.Cellular.Username = ""
	s.net.Cellular.Password = ""
	return true, nil
}

// simConfig opens the modem and either hands it to the operator through the
// AT shell followed by the catalog recorder, or replays the stored catalog.
func (s *Session) simConfig(ctx context.Context) error {
	s.term.Print("\r\nOpening Cellular module instance....")
	link, err := s.openLink(ctx)
	if err != nil {
		s.logger.Warn("open modem", "error", err)
		s.term.Print("Failed!!!\r\n")
		return nil
	}
	s.term.Print("done\r\n")

	err = s.simSession(ctx, link)

	if cerr := link.Close(); cerr != nil {
		s.logger.Warn("close modem", "error", cerr)
		s.term.Print("Failed to close Cellular Module instance!!!!\r\n")
	}
	return err
}

func (s *Session) openLink(ctx context.Context) (Link, error) {
	if s.open == nil {
		return nil, ErrNoModem
	}
	return s.open(ctx)
}

func (s *Session) simSession(ctx context.Context, link Link) error {
	opts := append([]atcmd.Option{atcmd.WithHalt(s.halt), atcmd.WithLogger(s.logger)}, s.atOpts...)
	sess := atcmd.NewSession(s.term, link, s.store, opts...)

	mode, err := s.choose(
		"\r\n"+
			"\r\n################ Cellular Configuration Menu #################\r\n"+
			" 1. Manual Config using AT cmd shell\r\n 2. Auto Config from Pre-stored AT cmd list\r\n"+
			"\r\n Enter your choice: ",
		"12", "Invalid choice !!!\r\n")
	if err != nil {
		return err
	}

	switch mode {
	case cellManual:
		if err := sess.Shell(ctx); err != nil {
			if errors.Is(err, atcmd.ErrTerminal) {
				return err
			}
			s.term.Print("\r\n Failed to open AT command shell!!!! \r\n")
			return nil
		}
		return sess.Record()

	case cellAuto:
		choice, err := s.choose(
			"\r\n"+
				"\r\n################ Cellular AutoCfg Menu #################\r\n"+
				" 1. Autocfg using stored user's AT cmd list\r\n"+
				"\r\n Enter your choice: ",
			"1", "Invalid choice !!!\r\n")
		if err != nil {
			return err
		}
		if choice != autoStoredList {
			return nil
		}

		count, err := sess.LoadCount()
		if err != nil {
			return nil
		}
		if count == 0 {
			s.term.Print("\r\n No AT Commands stored by User in data flash!!!\r\n")
			return nil
		}
		if err := sess.Replay(ctx); err != nil {
			s.logger.Warn("stored AT command list failed", "error", err)
		}
	}
	return nil
}
