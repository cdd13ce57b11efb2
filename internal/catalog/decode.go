package catalog

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"kart-checkout/internal/pricing"
)

var gzipMagic = []byte{0x1f, 0x8b}

// decode reads JSON-lines catalog records from r, transparently
// decompressing gzip input. Blank lines and lines starting with '#' are skipped.
func decode(ctx context.Context, r io.Reader) (*pricing.RuleSet, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if head, err := br.Peek(len(gzipMagic)); err == nil && bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	rules := make(map[string]pricing.PricingRule)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var rec Record
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, lineNo, err)
		}

		rule, err := rec.Rule()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if _, dup := rules[rec.Code]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate code %s", ErrInvalidRecord, lineNo, rec.Code)
		}
		rules[rec.Code] = rule
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	return pricing.NewRuleSet(rules), nil
}
