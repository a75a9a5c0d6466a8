package wizard

import (
	"fmt"
	"strings"

	"i4.energy/across/cellwiz/atcmd"
	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

// Dump prints the stored network and IoT records together with the stored
// AT command catalog. Records that were never stored print as unset. Any
// other read failure is handed to halt. Dump never writes to the store.
func Dump(term Terminal, st store.Store, halt func(error)) {
	var (
		net record.NetworkConfig
		iot record.IotConfig
	)
	if err := store.Load(st, store.NetInputCfg, 0, &net); err != nil {
		term.Print("\r\nFlash read failed!!!\r\n")
		halt(fmt.Errorf("%w: %w", ErrStore, err))
		return
	}
	if err := store.Load(st, store.IotInputCfg, 0, &iot); err != nil {
		term.Print("\r\nFlash read failed!!!\r\n")
		halt(fmt.Errorf("%w: %w", ErrStore, err))
		return
	}

	var b strings.Builder
	b.WriteString("\r\n")
	b.WriteString("\r\n ################### Flash Dump Start#########################\r\n")

	if net.Valid {
		dumpNetwork(&b, net)
	} else {
		b.WriteString("No Network Interface selected. Run cwiz command\r\n")
	}

	if iot.Valid {
		fmt.Fprintf(&b, "GCloud Endpoint:  %s\r\n", iot.Cloud.Endpoint)
		fmt.Fprintf(&b, "GCloud Project ID: %s\r\n", iot.Cloud.ProjectID)
		fmt.Fprintf(&b, "GCloud Device ID: %s\r\n", iot.Cloud.DeviceID)
		fmt.Fprintf(&b, "GCloud Cloud Region: %s\r\n", iot.Cloud.Region)
		fmt.Fprintf(&b, "GCloud Registry Id: %s\r\n", iot.Cloud.RegistryID)
		fmt.Fprintf(&b, "rootCA Certificate: %d bytes\r\n", iot.Certs.RootCA)
		fmt.Fprintf(&b, "Thing Certificate: %d bytes\r\n", iot.Certs.DevCert)
		fmt.Fprintf(&b, "Thing Private Key: %d bytes\r\n", iot.Certs.PrivKey)
	}

	if entries, err := atcmd.List(st); err != nil {
		b.WriteString("\r\nFailed to read User AT commands from Flash!!!\r\n")
	} else if len(entries) > 0 {
		b.WriteString("\r\nUser AT Commands\r\n")
		for i, e := range entries {
			fmt.Fprintf(&b, " %d. %s -> %s (wait %dms, retry %d x %dms)\r\n",
				i+1, e.Command, e.Response, e.WaitTime, e.RetryCount, e.RetryDelay)
		}
	}

	b.WriteString("\r\n ################## Flash Dump End #########################\r\n")
	b.WriteString("\r\n")
	term.Print(b.String())
}

func dumpNetwork(b *strings.Builder, net record.NetworkConfig) {
	fmt.Fprintf(b, "\r\nNetwork Interface selected: %s\r\n", net.InterfaceName)

	if net.AddrMode == record.AddrModeDHCP {
		b.WriteString("IP Mode: DHCP\r\n")
	} else {
		b.WriteString("IP Mode: Static\r\n")
		fmt.Fprintf(b, "\r\n  IP Address  : %s\r\n", record.FormatIPv4(net.Static.Address))
		fmt.Fprintf(b, "  Netmask     : %s\r\n", record.FormatIPv4(net.Static.Mask))
		fmt.Fprintf(b, "  Gateway     : %s\r\n", record.FormatIPv4(net.Static.Gateway))
		fmt.Fprintf(b, "  DNS Server  : %s\r\n", record.FormatIPv4(net.Static.DNS))
	}

	switch net.Interface {
	case record.WiFi:
		b.WriteString("\r\nWiFi Configuration\r\n")
		fmt.Fprintf(b, "  SSID        : %s\r\n", net.WiFi.SSID)
		fmt.Fprintf(b, "  Key         : %s\r\n", net.WiFi.Key)
		fmt.Fprintf(b, "  Security    : %s\r\n\r\n", net.WiFi.Security)
	case record.Cellular:
		b.WriteString("\r\nCellular Configuration\r\n")
		fmt.Fprintf(b, "\r\n APN: %s\r\n", net.Cellular.APN)
		fmt.Fprintf(b, "\r\n Context ID: %d\r\n", net.Cellular.ContextID)
		fmt.Fprintf(b, "\r\n PDP Type: %s\r\n\r\n", net.Cellular.PDPType)
	}
}
