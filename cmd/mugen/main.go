package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/mugen-go/pkg/session"
)

const version = "1.0.0"

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

// run executes one command and returns the process exit code. The outcome is
// reported in exactly one place, here.
func run(args []string, out io.Writer) int {
	rt := &invocation{out: out}
	err := newApp(rt).Run(args)

	if rt.session == nil {
		if err == nil {
			// help and version output
			return session.ExitSuccess
		}
		rt.session = session.New(nil, out)
	}
	return rt.session.Terminate(err)
}

func newApp(rt *invocation) *cli.App {
	return &cli.App{
		Name:  "mugen",
		Usage: "Relay signed inputs to a rollups node and settle its vouchers on chain",
		Description: `A command line client for a rollups application.

This client can:
- Sign an input as EIP-712 typed data and relay it to the node
- List the vouchers emitted by the application with their proofs
- Execute a proven voucher on the application contract`,
		Version:   version,
		Writer:    rt.out,
		ErrWriter: rt.out,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			{
				Name:  "send",
				Usage: "Sign an input and relay it to the node",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagWallet,
						Usage:    "Wallet selector: a registry address on local, a private key or seed phrase on remote",
						EnvVars:  []string{envWallet},
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagInputType,
						Usage: "How the input is encoded: String or Hex",
						Value: "String",
					},
					&cli.StringFlag{
						Name:     flagInput,
						Usage:    "Input text",
						Required: true,
					},
				},
				Action: rt.action(sendCommand),
			},
			{
				Name:   "vouchers",
				Usage:  "List vouchers with their descriptions and proof status",
				Action: rt.action(vouchersCommand),
			},
			{
				Name:  "execute",
				Usage: "Execute a proven voucher on the application contract",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  flagOutputIndex,
						Usage: "Index of the voucher to execute (default: the most recent)",
					},
				},
				Action: rt.action(executeCommand),
			},
		},
		Action: func(c *cli.Context) error {
			_ = cli.ShowAppHelp(c)
			if c.NArg() > 0 {
				return fmt.Errorf("unknown command %q", c.Args().First())
			}
			return fmt.Errorf("no command given")
		},
	}
}
