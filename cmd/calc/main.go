// Command calc is a terminal client for the calculator server.
//
//	calc [--server URL]          interactive keypad
//	calc add|subtract|multiply|divide|pow A B
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/example/calculator-demo/client"
	"github.com/example/calculator-demo/domain/arith"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var serverURL string

// RootCmd runs the interactive keypad.
var RootCmd = &cobra.Command{
	Use:          "calc",
	Short:        "Terminal calculator backed by the calculator API",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runREPL(cmd.Context(), client.NewSession(client.New(serverURL)), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("CALC_SERVER", client.DefaultBaseURL), "calculator server base URL")

	for _, op := range arith.Operations {
		RootCmd.AddCommand(newOperationCmd(op))
	}
}

// newOperationCmd builds a one-shot subcommand. Flag parsing is disabled so
// negative operands such as -3 are not taken for shorthand flags; --server is
// read by parseOperationArgs instead.
func newOperationCmd(op arith.Operation) *cobra.Command {
	name := string(op)
	if op == arith.OpPower {
		name = "pow"
	}
	return &cobra.Command{
		Use:                name + " A B",
		Short:              fmt.Sprintf("Print A %s B as computed by the server", op.Symbol()),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, operands, help, err := parseOperationArgs(args, serverURL)
			if err != nil {
				return err
			}
			if help {
				return cmd.Help()
			}
			if len(operands) != 2 {
				return fmt.Errorf("accepts 2 arg(s), received %d", len(operands))
			}

			values, err := arith.ValidateOperands(operands[0], operands[1])
			if err != nil {
				return err
			}
			out, err := client.New(server).CalculateText(cmd.Context(), op, values[0], values[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// parseOperationArgs separates --server and --help from the operands.
// Anything else, including values starting with '-', is an operand.
func parseOperationArgs(args []string, server string) (string, []string, bool, error) {
	var operands []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			return server, nil, true, nil
		case arg == "--":
			operands = append(operands, args[i+1:]...)
			return server, operands, false, nil
		case arg == "--server":
			if i+1 >= len(args) {
				return "", nil, false, errors.New("flag needs an argument: --server")
			}
			i++
			server = args[i]
		case strings.HasPrefix(arg, "--server="):
			server = strings.TrimPrefix(arg, "--server=")
		default:
			operands = append(operands, arg)
		}
	}
	return server, operands, false, nil
}

// runREPL reads key sequences line by line and prints the display after each.
// An empty line evaluates.
func runREPL(ctx context.Context, s *client.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Keys: digits . + - * / ^ % =  Words: clear ce back quit")
	fmt.Fprintf(out, "[%s]\n", s.Display())

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		if line == "" {
			line = "="
		}

		for _, field := range strings.Fields(line) {
			switch strings.ToLower(field) {
			case "clear", "ac":
				s.Clear()
			case "ce":
				s.ClearEntry()
			case "back":
				s.Backspace()
			default:
				for _, r := range field {
					if err := s.Press(ctx, string(r)); errors.Is(err, client.ErrUnknownKey) {
						fmt.Fprintln(out, color.YellowString("ignored key %q", r))
					}
				}
			}
		}

		if s.State() == client.StateError {
			fmt.Fprintln(out, color.RedString("[%s]", s.Display()))
			continue
		}
		fmt.Fprintf(out, "[%s]\n", s.Display())
	}
	return scanner.Err()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
