package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"pizza_vouchers/pizza"
	"pizza_vouchers/report"
	"pizza_vouchers/utils"
	"pizza_vouchers/vouchers"

	"github.com/ansel1/merry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const msgLoginFailed = "An error occurred during login. You may have passed the wrong password/username combination."
const msgListFailed = "Could not fetch current voucher list."
const msgRedeemFailed = "Could not redeem voucher."
const msgLoginCancelled = "Login cancelled."

// exitError carries the process exit code for a failed run along with the
// fixed lead-in line printed before the error detail.
type exitError struct {
	code int
	lead string
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.lead
	}
	return e.lead + ": " + e.err.Error()
}

func printUsage(out io.Writer) {
	fmt.Fprint(out, `pizza-vouchers - list and redeem pizza.de voucher codes.

Usage:
  pizza-vouchers list   [options]
  pizza-vouchers redeem [options] -v CODE

Commands:
  list, ls    List current available vouchers.
  redeem      Redeem a pizza.de voucher code.

Options:
`)
}

func requestPassword(cfg *Config) (string, error) {
	if cfg.Password != "" {
		return cfg.Password, nil
	}
	return utils.ReadPassword(fmt.Sprintf("Enter pizza.de password for account %s:", cfg.User))
}

func cmdList(cfg *Config, stdout io.Writer) error {
	password, err := requestPassword(cfg)
	if err != nil {
		return &exitError{code: 4, lead: msgLoginCancelled, err: err}
	}

	client := pizza.NewClient(cfg.APIURL)
	session, err := client.Authenticate(cfg.User, password)
	if err != nil {
		return &exitError{code: 1, lead: msgLoginFailed, err: err}
	}

	raw, err := client.ListVouchers(session)
	if err != nil {
		return &exitError{code: 2, lead: msgListFailed, err: err}
	}

	fmt.Fprint(stdout, report.Render(vouchers.Normalize(raw)))
	return nil
}

func cmdRedeem(cfg *Config, code string, stdout io.Writer) error {
	password, err := requestPassword(cfg)
	if err != nil {
		return &exitError{code: 4, lead: msgLoginCancelled, err: err}
	}

	client := pizza.NewClient(cfg.APIURL)
	session, err := client.Authenticate(cfg.User, password)
	if err != nil {
		return &exitError{code: 1, lead: msgLoginFailed, err: err}
	}

	confirmed, raw, err := client.RedeemVoucher(session, code)
	if err != nil {
		return &exitError{code: 3, lead: msgRedeemFailed, err: err}
	}

	fmt.Fprintf(stdout, "Code %s redeemed successfully!\n", confirmed)
	fmt.Fprintln(stdout, "Current vouchers:")
	fmt.Fprint(stdout, report.Render(vouchers.Normalize(raw)))
	return nil
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return &exitError{code: 2, lead: "missing command, expected 'list' or 'redeem'"}
	}
	command, rest := args[0], args[1:]

	flagSet := flag.NewFlagSet("pizza-vouchers", flag.ContinueOnError)
	flagSet.SetOutput(os.Stderr)
	flagSet.Usage = func() {
		printUsage(os.Stderr)
		flagSet.PrintDefaults()
	}

	userFlag := flagSet.String("user", "", "pizza.de user name.")
	uFlag := flagSet.String("u", "", "pizza.de user name (shorthand).")
	passwordFlag := flagSet.String("password", "", "pizza.de password, prompted when omitted.")
	pFlag := flagSet.String("p", "", "pizza.de password (shorthand).")
	voucherFlag := flagSet.String("voucher", "", "voucher code to redeem.")
	vFlag := flagSet.String("v", "", "voucher code to redeem (shorthand).")
	apiURLFlag := flagSet.String("api-url", "", "API base URL override.")
	debugFlag := flagSet.Bool("debug", false, "Enable debug logging.")

	if err := flagSet.Parse(rest); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return &exitError{code: 2, lead: err.Error()}
	}
	if *debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *userFlag != "" {
		cfg.User = *userFlag
	} else if *uFlag != "" {
		cfg.User = *uFlag
	}
	if *passwordFlag != "" {
		cfg.Password = *passwordFlag
	} else if *pFlag != "" {
		cfg.Password = *pFlag
	}
	if *apiURLFlag != "" {
		cfg.APIURL = *apiURLFlag
	}

	if cfg.User == "" {
		flagSet.Usage()
		return &exitError{code: 2, lead: "a user name is required (--user)"}
	}

	switch command {
	case "list", "ls":
		return cmdList(cfg, stdout)
	case "redeem":
		voucherCode := *voucherFlag
		if voucherCode == "" {
			voucherCode = *vFlag
		}
		if voucherCode == "" && flagSet.NArg() > 0 {
			voucherCode = flagSet.Arg(0)
		}
		if voucherCode == "" {
			flagSet.Usage()
			return &exitError{code: 2, lead: "a voucher code is required (--voucher)"}
		}
		return cmdRedeem(cfg, voucherCode, stdout)
	default:
		flagSet.Usage()
		return &exitError{code: 2, lead: "unknown command: " + command}
	}
}

func main() {
	// Logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerolog.ErrorStackMarshaler = func(err error) interface{} { return merry.Details(err) }
	zerolog.ErrorStackFieldName = "message" //TODO: https://github.com/rs/zerolog/issues/157
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05.000"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, exitErr.lead)
		if exitErr.err != nil {
			fmt.Fprintln(os.Stderr, exitErr.err)
		}
		os.Exit(exitErr.code)
	}
	log.Error().Stack().Err(err).Msg("")
	os.Exit(1)
}
