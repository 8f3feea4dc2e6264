package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/report"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/transport"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/pkg/workerpool"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

// maxLineBytes bounds one hex transaction in batch input.
const maxLineBytes = 8 << 20

func (a *app) addCommands(parser *flags.Parser) error {
	commands := []struct {
		name, short, long string
		data              any
	}{
		{"decode", "Decode a raw transaction", "Decode a hex transaction, or a {\"result\": \"<hex>\"} RPC envelope, and print it as JSON.", &decodeCommand{app: a}},
		{"encode", "Build a transaction from a template", "Build a transaction from a YAML or JSON template and print it as JSON.", &encodeCommand{app: a}},
		{"disasm", "Disassemble a script", "Print the ASM of a hex script.", &disasmCommand{app: a}},
		{"asm", "Assemble a script", "Print the hex of an ASM script.", &asmCommand{app: a}},
		{"classify", "Classify a script", "Print the type, ASM and address of a hex script as JSON.", &classifyCommand{app: a}},
		{"batch", "Decode many transactions", "Decode one hex transaction per line and print one JSON object per line.", &batchCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return fmt.Errorf("add command %s: %w", c.name, err)
		}
	}
	return nil
}

type decodeCommand struct {
	app  *app
	File string `long:"file" short:"f" description:"read the transaction from a file, - for stdin"`
	Args struct {
		Hex string `positional-arg-name:"hex"`
	} `positional-args:"yes"`
}

func (c *decodeCommand) Execute([]string) error {
	input := c.Args.Hex
	if input == "" || c.File != "" {
		data, err := c.app.readFile(c.File)
		if err != nil {
			return err
		}
		input = string(data)
	}
	view, err := c.app.handler.Decode(c.app.ctx, &transport.DecodeRequest{Hex: input})
	if err != nil {
		return err
	}
	return c.app.printJSON(view)
}

type encodeCommand struct {
	app      *app
	Template string `long:"template" short:"t" description:"YAML or JSON template file, - for stdin" default:"-"`
	HexOnly  bool   `long:"hex" description:"print only the encoded hex"`
}

func (c *encodeCommand) Execute([]string) error {
	r, closeFn, err := c.app.open(c.Template)
	if err != nil {
		return err
	}
	defer closeFn()
	tmpl, err := tx.LoadTemplate(r)
	if err != nil {
		return err
	}
	view, err := c.app.handler.Encode(c.app.ctx, &tmpl)
	if err != nil {
		return err
	}
	if c.HexOnly {
		_, err = fmt.Fprintln(c.app.stdout, view.Hex)
		return err
	}
	return c.app.printJSON(view)
}

type disasmCommand struct {
	app  *app
	Args struct {
		Hex string `positional-arg-name:"hex" required:"yes"`
	} `positional-args:"yes"`
}

func (c *disasmCommand) Execute([]string) error {
	view, err := c.app.handler.Disassemble(c.app.ctx, &transport.ScriptRequest{Hex: c.Args.Hex})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.app.stdout, view.ASM)
	return err
}

type asmCommand struct {
	app       *app
	Canonical bool `long:"canonical" description:"reject ASM that does not disassemble to the same text"`
	Args      struct {
		Tokens []string `positional-arg-name:"token" required:"1"`
	} `positional-args:"yes"`
}

func (c *asmCommand) Execute([]string) error {
	view, err := c.app.handler.Assemble(c.app.ctx, &transport.AssembleRequest{
		ASM:       strings.Join(c.Args.Tokens, " "),
		Canonical: c.Canonical,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.app.stdout, view.Hex)
	return err
}

type classifyCommand struct {
	app  *app
	Args struct {
		Hex string `positional-arg-name:"hex" required:"yes"`
	} `positional-args:"yes"`
}

func (c *classifyCommand) Execute([]string) error {
	view, err := c.app.handler.Classify(c.app.ctx, &transport.ScriptRequest{Hex: c.Args.Hex})
	if err != nil {
		return err
	}
	return c.app.printJSON(view)
}

type batchCommand struct {
	app     *app
	File    string `long:"file" short:"f" description:"file with one hex transaction per line, - for stdin" default:"-"`
	Workers int    `long:"workers" short:"w" description:"concurrent decodes" default:"4"`
}

type batchResult struct {
	Line        int                 `json:"line"`
	Transaction *report.Transaction `json:"transaction,omitempty"`
	Error       string              `json:"error,omitempty"`
	Kind        string              `json:"kind,omitempty"`
}

type batchLine struct {
	number int
	hex    string
}

func (c *batchCommand) Execute([]string) error {
	lines, err := c.readLines()
	if err != nil {
		return err
	}

	c.seed(lines)

	results, err := workerpool.Map(c.app.ctx, c.Workers, lines, func(ctx context.Context, line batchLine) (batchResult, error) {
		view, err := c.app.handler.Decode(ctx, &transport.DecodeRequest{Hex: line.hex})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return batchResult{}, ctxErr
			}
			return batchResult{
				Line:  line.number,
				Error: err.Error(),
				Kind:  strings.ReplaceAll(txerr.KindOf(err).String(), " ", "_"),
			}, nil
		}
		return batchResult{Line: line.number, Transaction: view}, nil
	})
	if err != nil {
		return fmt.Errorf("batch decode: %w", err)
	}

	enc := json.NewEncoder(c.app.stdout)
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	c.app.logger.Info("batch decoded",
		zap.Int("total", len(results)),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d transactions failed to decode", failed, len(results))
	}
	return nil
}

// seed caches the outputs of every batch transaction, so a line spending an
// output created elsewhere in the batch resolves without the lookup source.
func (c *batchCommand) seed(lines []batchLine) {
	if c.app.cache == nil {
		return
	}
	seeded := 0
	for _, line := range lines {
		t, err := c.app.offline.DecodeHex(c.app.ctx, line.hex)
		if err != nil {
			continue
		}
		c.app.cache.SeedTransaction(t)
		seeded++
	}
	c.app.logger.Debug("batch outputs seeded", zap.Int("transactions", seeded))
}

func (c *batchCommand) readLines() ([]batchLine, error) {
	r, closeFn, err := c.app.open(c.File)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var lines []batchLine
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for number := 1; scanner.Scan(); number++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, batchLine{number: number, hex: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}
	if len(lines) == 0 {
		return nil, errors.New("batch input has no transactions")
	}
	return lines, nil
}

func (a *app) open(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return a.stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func (a *app) readFile(path string) ([]byte, error) {
	r, closeFn, err := a.open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
