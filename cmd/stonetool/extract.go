package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/renameio"
	"golang.org/x/xerrors"

	stone "github.com/aerynos/stone"
)

const extractHelp = `stonetool extract [-flags] <file>

Extract the content payload of a stone archive to -out, replacing it
atomically.

Example:
  % stonetool extract -out=/tmp/blob pkg/emacs.stone
`

func cmdextract(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("extract", flag.ExitOnError)
	out := fset.String("out", "", "destination path for the extracted content payload")
	fset.Usage = usage(fset, extractHelp)
	fset.Parse(args)
	if fset.NArg() != 1 || *out == "" {
		return xerrors.Errorf("syntax: extract -out=<path> <file>")
	}
	path := fset.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return xerrors.Errorf("extract %s: %w", path, err)
	}
	defer f.Close()

	r, err := stone.OpenFile(f)
	if err != nil {
		return xerrors.Errorf("extract %s: %w", path, err)
	}

	var found bool
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := r.NextPayload()
		if err != nil {
			if xerrors.Is(err, stone.NoMorePayloads) {
				break
			}
			return xerrors.Errorf("extract %s: %w", path, err)
		}
		if p.Kind() != stone.PayloadKindContent {
			continue
		}
		found = true
		if err := extractContent(p, *out); err != nil {
			return xerrors.Errorf("extract %s: %w", path, err)
		}
		break
	}
	if !found {
		return xerrors.Errorf("extract %s: archive has no content payload", path)
	}
	return nil
}

// extractContent drains p's content payload into a temp file next to out,
// then renames it into place, matching the atomic-replace idiom the teacher
// uses for installed packages (cmd/distri/install.go).
func extractContent(p *stone.Payload, out string) error {
	cr, err := p.Content()
	if err != nil {
		return err
	}
	defer cr.Close()

	t, err := renameio.TempFile("", out)
	if err != nil {
		return err
	}
	defer t.Cleanup()

	if _, err := cr.WriteTo(t); err != nil {
		return err
	}
	if !cr.IsChecksumValid() {
		return xerrors.Errorf("checksum mismatch extracting content payload")
	}
	return t.CloseAtomicallyReplace()
}
