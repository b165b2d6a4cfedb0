package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/zoobzio/veil"
)

func runEncode(args []string, stdin io.Reader, stdout, _ io.Writer) error {
	flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
	hexInput := flagSet.Bool("hex", false, "message is hex-encoded bytes")
	passphrase := flagSet.String("passphrase", "", "seal the message with XChaCha20 under this passphrase")
	raw := flagSet.Bool("raw", false, "print only the encoded text")
	if done, err := parseFlags(flagSet, args, "veil encode [flags] <base> [message...|-]", stdout); done {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return errors.New("encode needs a base character")
	}
	base, err := veil.ParseBase(rest[0])
	if err != nil {
		return err
	}

	fromStdin := len(rest) == 1 || (len(rest) == 2 && rest[1] == "-")

	// Plain raw output streams straight through.
	if fromStdin && *raw && !*hexInput && *passphrase == "" {
		in, err := stdinReader(stdin)
		if err != nil {
			return err
		}
		w := veil.NewWriter(stdout, base)
		if _, err := io.Copy(w, in); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout)
		return err
	}

	var payload []byte
	if fromStdin {
		in, err := stdinReader(stdin)
		if err != nil {
			return err
		}
		if payload, err = io.ReadAll(in); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		payload = []byte(strings.Join(rest[1:], " "))
	}

	if *hexInput {
		payload, err = hex.DecodeString(strings.Join(strings.Fields(string(payload)), ""))
		if err != nil {
			return fmt.Errorf("invalid hex message: %w", err)
		}
	}

	if *passphrase != "" {
		enc, err := veil.Passphrase([]byte(*passphrase), veil.EncryptXChaCha20)
		if err != nil {
			return err
		}
		if payload, err = enc.Encrypt(payload); err != nil {
			return fmt.Errorf("%w: %v", veil.ErrEncrypt, err)
		}
	}

	text := veil.Encode(base, payload)
	if *raw {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}

	heading(stdout, "Encoded")
	fmt.Fprintf(stdout, "  %s\n\n", text)
	row(stdout, "escaped", fmt.Sprintf("%+q", text))
	row(stdout, "message", hex.EncodeToString(payload))
	printStats(stdout, veil.Analyze(text))
	return nil
}

func runDecode(args []string, stdin io.Reader, stdout, _ io.Writer) error {
	flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	passphrase := flagSet.String("passphrase", "", "open a payload sealed under this passphrase")
	hexOutput := flagSet.Bool("hex", false, "print the payload as hex")
	raw := flagSet.Bool("raw", false, "write the payload bytes verbatim")
	if done, err := parseFlags(flagSet, args, "veil decode [flags] [text...|-]", stdout); done {
		return err
	}

	var payload []byte
	rest := flagSet.Args()
	if len(rest) == 0 || (len(rest) == 1 && rest[0] == "-") {
		in, err := stdinReader(stdin)
		if err != nil {
			return err
		}
		if payload, err = io.ReadAll(veil.NewReader(in)); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		payload = veil.Decode(strings.Join(rest, " "))
	}

	if len(payload) == 0 {
		return veil.ErrNoPayload
	}

	if *passphrase != "" {
		enc, err := veil.Passphrase([]byte(*passphrase), veil.EncryptXChaCha20)
		if err != nil {
			return err
		}
		opened, err := enc.Decrypt(payload)
		if err != nil {
			return fmt.Errorf("%w: %v", veil.ErrDecrypt, err)
		}
		payload = opened
	}

	switch {
	case *raw:
		_, err := stdout.Write(payload)
		return err
	case *hexOutput:
		_, err := fmt.Fprintln(stdout, hex.EncodeToString(payload))
		return err
	case utf8.Valid(payload):
		_, err := fmt.Fprintln(stdout, string(payload))
		return err
	default:
		warn(stdout, "payload is not UTF-8 text, showing %d bytes as hex", len(payload))
		_, err := fmt.Fprint(stdout, hex.Dump(payload))
		return err
	}
}

func runAnalyze(args []string, stdin io.Reader, stdout, _ io.Writer) error {
	flagSet := pflag.NewFlagSet("analyze", pflag.ContinueOnError)
	if done, err := parseFlags(flagSet, args, "veil analyze [text...|-]", stdout); done {
		return err
	}

	var text string
	rest := flagSet.Args()
	if len(rest) == 0 || (len(rest) == 1 && rest[0] == "-") {
		in, err := stdinReader(stdin)
		if err != nil {
			return err
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	} else {
		text = strings.Join(rest, " ")
	}

	heading(stdout, "Analysis")
	st := veil.Analyze(text)
	row(stdout, "escaped", fmt.Sprintf("%+q", text))
	printStats(stdout, st)
	if st.Selectors > 0 {
		fmt.Fprintln(stdout)
		warn(stdout, "text carries %d hidden bytes", st.Selectors)
	}
	return nil
}

func runDemo(args []string, _ io.Reader, stdout, _ io.Writer) error {
	flagSet := pflag.NewFlagSet("demo", pflag.ContinueOnError)
	if done, err := parseFlags(flagSet, args, "veil demo", stdout); done {
		return err
	}

	const base = '🧁'
	message := []byte("hello")

	heading(stdout, fmt.Sprintf("Hiding %q behind %c", message, base))
	for _, b := range message {
		fmt.Fprintf(stdout, "  %q  0x%02X  ->  %v\n", b, b, veil.SelectorFor(b))
	}

	text := veil.Encode(base, message)
	fmt.Fprintln(stdout)
	heading(stdout, "Result")
	fmt.Fprintf(stdout, "  %s\n\n", text)
	printStats(stdout, veil.Analyze(text))

	fmt.Fprintln(stdout)
	heading(stdout, "Decoded")
	fmt.Fprintf(stdout, "  %s\n\n", veil.Decode(text))

	heading(stdout, "Range edges")
	for _, b := range []byte{0, 15, 16, 255} {
		fmt.Fprintf(stdout, "  %3d  ->  %v\n", b, veil.SelectorFor(b))
	}
	return nil
}

// stdinReader refuses to wait on an interactive terminal.
func stdinReader(stdin io.Reader) (io.Reader, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errors.New("no text given: pass it as an argument or pipe it on stdin")
	}
	return stdin, nil
}

func printStats(w io.Writer, st veil.Stats) {
	row(w, "scalars", st.Scalars)
	row(w, "selectors", st.Selectors)
	row(w, "bytes", st.Bytes)
	row(w, "glyphs", st.Glyphs)
	if st.Selectors > 0 {
		row(w, "overhead", fmt.Sprintf("%.2f bytes per hidden byte", st.Overhead()))
	}
}
