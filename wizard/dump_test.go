package wizard_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
	"i4.energy/across/cellwiz/wizard"
)

func dump(st store.Store) string {
	term, out := newTerm()
	wizard.Dump(term, st, func(err error) { panic(err) })
	return out.String()
}

func TestDump(t *testing.T) {
	t.Run("Empty store", func(t *testing.T) {
		out := dump(store.NewMemory())
		assert.Equal(t, "\r\n"+
			"\r\n ################### Flash Dump Start#########################\r\n"+
			"No Network Interface selected. Run cwiz command\r\n"+
			"\r\n ################## Flash Dump End #########################\r\n"+
			"\r\n", out)
	})

	t.Run("Static Ethernet entered through the wizard", func(t *testing.T) {
		st := store.NewMemory()
		_, err := run(st, []string{
			"1", "1", "1",
			"192.168.1.10", "255.255.255.0", "192.168.1.1", "8.8.4.4",
			"3", "4",
		})
		require.NoError(t, err)

		assert.Contains(t, dump(st), "\r\nNetwork Interface selected: Ethernet\r\n"+
			"IP Mode: Static\r\n"+
			"\r\n  IP Address  : 192.168.1.10\r\n"+
			"  Netmask     : 255.255.255.0\r\n"+
			"  Gateway     : 192.168.1.1\r\n"+
			"  DNS Server  : 8.8.4.4\r\n")
	})

	t.Run("Wi-Fi with DHCP", func(t *testing.T) {
		st := store.NewMemory()
		require.NoError(t, store.Save(st, store.NetInputCfg, 0, record.NetworkConfig{
			Interface:     record.WiFi,
			InterfaceName: "WiFi",
			Valid:         true,
			AddrMode:      record.AddrModeDHCP,
			WiFi:          record.WiFiConfig{SSID: "HomeNet", Key: "s3cret", Security: record.SecurityWPA2},
		}))

		out := dump(st)
		assert.Contains(t, out, "IP Mode: DHCP\r\n"+
			"\r\nWiFi Configuration\r\n"+
			"  SSID        : HomeNet\r\n"+
			"  Key         : s3cret\r\n"+
			"  Security    : WPA2\r\n\r\n")
		assert.NotContains(t, out, "IP Address")
	})

	t.Run("Cellular, cloud identity and catalog", func(t *testing.T) {
		st := store.NewMemory()
		require.NoError(t, store.Save(st, store.NetInputCfg, 0, record.NetworkConfig{
			Interface:     record.Cellular,
			InterfaceName: "Cellular",
			Valid:         true,
			AddrMode:      record.AddrModeDHCP,
			Cellular:      record.CellularConfig{APN: "iot.apn", ContextID: 2, PDPType: record.PDPIP},
		}))
		require.NoError(t, store.Save(st, store.IotInputCfg, 0, record.IotConfig{
			Cloud: record.CloudConfig{
				ProjectID:  "proj",
				Endpoint:   "mqtt.googleapis.com",
				DeviceID:   "dev",
				Region:     "us-central1",
				RegistryID: "reg",
			},
			Certs: record.CertLengths{RootCA: 900, DevCert: 800, PrivKey: 1190},
			Valid: true,
		}))
		require.NoError(t, store.Save(st, store.ATCmdInfoType, 0, record.ATCommand{
			Command: "AT+CGATT=1", Response: "OK", WaitTime: 2000, RetryCount: 3, RetryDelay: 500,
		}))
		require.NoError(t, st.Write([]byte{1}, store.ATCmdCfgType, 0))

		out := dump(st)
		assert.Contains(t, out, "\r\nCellular Configuration\r\n"+
			"\r\n APN: iot.apn\r\n"+
			"\r\n Context ID: 2\r\n"+
			"\r\n PDP Type: IP\r\n\r\n")
		assert.Contains(t, out, "GCloud Endpoint:  mqtt.googleapis.com\r\n"+
			"GCloud Project ID: proj\r\n"+
			"GCloud Device ID: dev\r\n"+
			"GCloud Cloud Region: us-central1\r\n"+
			"GCloud Registry Id: reg\r\n")
		assert.Contains(t, out, "Thing Private Key: 1190 bytes\r\n")
		assert.Contains(t, out, " 1. AT+CGATT=1 -> OK (wait 2000ms, retry 3 x 500ms)\r\n")
	})

	t.Run("Read failure halts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := store.NewMockStore(ctrl)
		mockStore.EXPECT().
			Read(store.NetInputCfg, 0).
			Return(nil, errors.New("flash failure"))

		term, out := newTerm()
		require.Panics(t, func() {
			wizard.Dump(term, mockStore, func(err error) { panic(err) })
		})
		assert.Contains(t, out.String(), "\r\nFlash read failed!!!\r\n")
	})

	t.Run("Never writes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := store.NewMockStore(ctrl)
		mockStore.EXPECT().Read(gomock.Any(), gomock.Any()).Return(nil, store.ErrNotFound).AnyTimes()

		dump(mockStore)
	})
}
