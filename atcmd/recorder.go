package atcmd

import (
	"fmt"

	"i4.energy/across/cellwiz/at"
	"i4.energy/across/cellwiz/console"
	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

type recordStage int

const (
	stageCommand recordStage = iota
	stageResponse
	stageWaitTime
	stageRetryCount
	stageRetryDelay
	stageConfirm
)

// Record asks whether the operator wants to store a command catalog for the
// carrier and, if so, collects entries one by one until exit is typed at the
// command prompt. The catalog restarts at slot 0.
func (s *Session) Record() error {
	for {
		s.term.Print("\r\n Do you wish to store the AT commands for your carrier? [Y/N]: ")
		line, err := s.term.ReadLine()
		if err != nil {
			return err
		}

		switch firstByte(line) {
		case 'N', 'n':
			return nil
		case 'Y', 'y':
			s.seq = 0
			return s.recordEntries()
		default:
			s.term.Print("\r\nInvalid Input!!!\r\n")
		}
	}
}

func (s *Session) recordEntries() error {
	var entry record.ATCommand
	stage := stageCommand

	for {
		switch stage {
		case stageCommand:
			s.term.Print("\r\n***** Start Inserting AT Commands. Type exit to terminate!!!  *****\r\n")
			s.term.Print("\r\n AT Command: ")
			line, err := s.term.ReadLine()
			if err != nil {
				return err
			}

			if at.IsExit(line) {
				if err := s.store.Write([]byte{s.seq}, store.ATCmdCfgType, 0); err != nil {
					return s.fatal("\r\nFailed to store AT command sq_number!!!\r\n", err)
				}
				s.logger.Info("AT command catalog stored", "entries", s.seq)
				return nil
			}
			if len(line) > record.MaxATFieldLen {
				s.term.Print("\r\n Command is too large to save. Max allowed length is 125 bytes \r\n")
				continue
			}
			entry.Command = line
			stage = stageResponse

		case stageResponse:
			s.term.Print("\r\nResponse <case sensitive>: ")
			line, err := s.term.ReadLine()
			if err != nil {
				return err
			}
			if len(line) > record.MaxATFieldLen {
				s.term.Print("\r\n Response is too large to save. Max allowed length is 125 bytes \r\n")
				continue
			}
			entry.Response = line
			stage = stageWaitTime

		case stageWaitTime:
			s.term.Print("\r\nResponse Wait time in MilliSeconds: ")
			line, err := s.term.ReadLine()
			if err != nil {
				return err
			}
			entry.WaitTime = uint32(console.Atoi(line))
			stage = stageRetryCount

		case stageRetryCount:
			s.term.Print("\r\nRetry Count: ")
			line, err := s.term.ReadLine()
			if err != nil {
				return err
			}
			entry.RetryCount = uint8(console.Atoi(line))
			stage = stageRetryDelay

		case stageRetryDelay:
			s.term.Print("\r\nRetry Delay in milli-seconds : ")
			line, err := s.term.ReadLine()
			if err != nil {
				return err
			}
			entry.RetryDelay = uint16(console.Atoi(line))
			if entry.RetryDelay > record.MaxRetryDelay {
				s.term.Print("\r\n Retry Delay is invalid. Max Allowed is 2000ms \r\n")
				continue
			}
			stage = stageConfirm

		case stageConfirm:
			s.term.Print(summary(entry))
			s.term.Print("Do you Want to save this AT Command ? [y/n]: ")
			line, err := s.term.ReadLine()
			if err != nil {
				return err
			}

			if line == "y" || line == "Y" {
				if err := store.Save(s.store, store.ATCmdInfoType, int(s.seq), entry); err != nil {
					return s.fatal("\r\nFailed to store AT command \r\n", err)
				}
				s.logger.Info("AT command stored", "slot", s.seq, "cmd", entry.Command)
				s.seq++
			}

			entry = record.ATCommand{}
			stage = stageCommand
		}
	}
}

func summary(e record.ATCommand) string {
	return fmt.Sprintf("\r\n\r\n###################################################### \r\n"+
		"AT Command: %s\r\n"+
		"Response string: %s\r\n"+
		"Response Wait time: %d\r\n"+
		"Retry Count: %d\r\n"+
		"Retry Delay: %d\r\n"+
		"\r\n ###################################################### \r\n",
		e.Command, e.Response, e.WaitTime, e.RetryCount, e.RetryDelay)
}

func firstByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}
