// Package markdown is the host-facing entry point: it parses a document
// with goldmark, hands fenced code blocks to the mdsf plugin, renders the
// document back to Markdown and runs the shell hooks over the result.
package markdown

import (
	"bytes"
	"context"

	formatter "github.com/mdigger/goldmark-formatter"
	"github.com/mdpipe/mdpipe/hooks"
	"github.com/mdpipe/mdpipe/mdsf"
	"github.com/mdpipe/mdpipe/types"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// FormatDocument formats one Markdown document: code blocks first, then
// the Markdown rendering itself, then the document-level shell hooks.
// Errors surface only from strict/fail-on-error plugin configurations or
// from unparseable input; otherwise the document always comes back.
func FormatDocument(
	ctx context.Context,
	source []byte,
	hooksCfg types.HooksConfig,
	mdsfCfg types.MdsfConfig,
) ([]byte, error) {
	source, err := FormatCodeBlocks(ctx, source, mdsfCfg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := formatter.Format(source, &buf); err != nil {
		return nil, karma.Format(err, "unable to render markdown")
	}

	document, err := hooks.PostProcess(ctx, buf.String(), hooksCfg)
	if err != nil {
		return nil, err
	}

	return []byte(document), nil
}

// codeBlock is one fenced block's content span within the source,
// together with its declared language.
type codeBlock struct {
	language string
	start    int
	stop     int
}

// FormatCodeBlocks runs the mdsf plugin over every eligible fenced code
// block and splices the formatted content back into the source. Blocks
// without an info string are left alone: there is no language to hand to
// the formatter.
func FormatCodeBlocks(
	ctx context.Context,
	source []byte,
	cfg types.MdsfConfig,
) ([]byte, error) {
	blocks := collectCodeBlocks(source)
	if len(blocks) == 0 {
		return source, nil
	}

	var (
		result bytes.Buffer
		cursor int
	)

	for _, block := range blocks {
		code := string(source[block.start:block.stop])

		formatted, err := mdsf.FormatBlock(ctx, code, block.language, cfg)
		if err != nil {
			return nil, err
		}

		log.Tracef(nil, "formatted %q code block at offset %d", block.language, block.start)

		result.Write(source[cursor:block.start])
		result.WriteString(formatted)
		cursor = block.stop
	}

	result.Write(source[cursor:])

	return result.Bytes(), nil
}

// collectCodeBlocks walks the goldmark AST and records the content spans
// of fenced code blocks that carry a language, in document order.
func collectCodeBlocks(source []byte) []codeBlock {
	parser := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	).Parser()

	document := parser.Parse(text.NewReader(source))

	var blocks []codeBlock

	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		language := string(fenced.Language(source))
		lines := fenced.Lines()
		if language == "" || lines.Len() == 0 {
			return ast.WalkContinue, nil
		}

		blocks = append(blocks, codeBlock{
			language: language,
			start:    lines.At(0).Start,
			stop:     lines.At(lines.Len() - 1).Stop,
		})

		return ast.WalkContinue, nil
	})

	return blocks
}
