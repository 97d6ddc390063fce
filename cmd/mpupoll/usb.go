package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/mpupoll/adapter"
	"github.com/mklimuk/mpupoll/cmd/mpupoll/console"
)

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "inspect attached USB bridges",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var usbLsCmd = cli.Command{
	Name:  "ls",
	Usage: "list all HID devices",
	Action: func(c *cli.Context) error {
		listDevices(console.Writer(), hid.Enumerate(0, 0))
		return nil
	},
}

var usbDetectCmd = cli.Command{
	Name:  "detect",
	Usage: "list supported I2C bridges with the index accepted by --usb-index",
	Action: func(c *cli.Context) error {
		detectBridges(console.Writer(), hid.Enumerate(0, 0))
		return nil
	},
}

func listDevices(out io.Writer, devices []hid.DeviceInfo) {
	w := tabwriter.NewWriter(out, 24, 0, 1, ' ', 0)
	_, _ = fmt.Fprintf(w, "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\n")
	for _, dev := range devices {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%s\t%s\n",
			dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product)
	}
	_ = w.Flush()
}

// detectBridges prints the MCP2221 bridges in enumeration order. The index
// column matches the one used for device selection.
func detectBridges(out io.Writer, devices []hid.DeviceInfo) {
	w := tabwriter.NewWriter(out, 8, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "INDEX\tVENDOR\tPRODUCT\tDEVICE\tPATH\n")
	index := 0
	for _, dev := range devices {
		if dev.VendorID != adapter.VendorID || dev.ProductID != adapter.ProductID {
			continue
		}
		_, _ = fmt.Fprintf(w, "%d\t%#x\t%#x\t%s\t%s\n", index, dev.VendorID, dev.ProductID, "MCP2221", dev.Path)
		index++
	}
	_ = w.Flush()
}
