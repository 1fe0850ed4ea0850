// Package main is euroc-info, a command line inspector for EuRoC MAV recordings.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagRoot   = "root"
	flagDebug  = "debug"
	flagRight  = "right"
	flagDecode = "decode"
)

func newApp() *cli.App {
	return &cli.App{
		Name:            "euroc-info",
		Usage:           "inspect a EuRoC MAV recording",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:     flagRoot,
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "recording root `DIR` (the folder holding cam0, imu0, ...)",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "sensors",
				Usage:  "list the sensor folders and whether they are readable",
				Action: SensorsAction,
			},
			{
				Name:   "calib",
				Usage:  "print the calibration of every readable sensor",
				Action: CalibrationAction,
			},
			{
				Name:   "imu",
				Usage:  "summarize the IMU log",
				Action: IMUAction,
			},
			{
				Name:  "frames",
				Usage: "summarize a camera log",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagRight,
						Usage: "use the right camera instead of the left one",
					},
					&cli.BoolFlag{
						Name:  flagDecode,
						Usage: "decode every image instead of reading image headers only",
					},
				},
				Action: FramesAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
