package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	stone "github.com/aerynos/stone"
)

const inspectHelp = `stonetool inspect [-flags] <file>...

Print the header and payload summary of one or more stone archives.

Example:
  % stonetool inspect pkg/emacs.stone
`

// heading renders a section heading, underlined when stdout is a terminal,
// plain otherwise (matching the teacher's terminal-aware formatting, e.g.
// cmd/distri/builder.go's status reporting).
func heading(w *os.File, s string) {
	fmt.Fprintln(w, s)
	if isatty.IsTerminal(w.Fd()) {
		fmt.Fprintln(w, underline(len(s)))
	}
}

func underline(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

func cmdinspect(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("inspect", flag.ExitOnError)
	fset.Usage = usage(fset, inspectHelp)
	fset.Parse(args)
	if fset.NArg() == 0 {
		return xerrors.Errorf("syntax: inspect <file>...")
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, path := range fset.Args() {
		path := path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return inspectOne(path)
		})
	}
	return eg.Wait()
}

func inspectOne(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return xerrors.Errorf("inspect %s: %w", path, err)
	}
	defer f.Close()

	r, err := stone.OpenFile(f)
	if err != nil {
		return xerrors.Errorf("inspect %s: %w", path, err)
	}

	heading(os.Stdout, fmt.Sprintf("%s (format v%d)", path, r.Version()))
	hdr := r.Header()
	fmt.Printf("file_type: %s, num_payloads: %d\n", hdr.FileType, hdr.NumPayloads)

	for {
		p, err := r.NextPayload()
		if err != nil {
			if xerrors.Is(err, stone.NoMorePayloads) {
				break
			}
			return xerrors.Errorf("inspect %s: %w", path, err)
		}
		ph := p.Header()
		fmt.Printf("  payload kind=%s version=%d compression=%s stored=%d plain=%d records=%d checksum=%s\n",
			ph.Kind, ph.Version, ph.Compression, ph.StoredSize, ph.PlainSize, ph.NumRecords,
			hex.EncodeToString(ph.Checksum[:]))
		if err := describePayload(p); err != nil {
			return xerrors.Errorf("inspect %s: %w", path, err)
		}
	}
	fmt.Println()
	return nil
}

func describePayload(p *stone.Payload) error {
	switch p.Kind() {
	case stone.PayloadKindMeta:
		mr, err := p.Meta()
		if err != nil {
			return err
		}
		for {
			rec, err := mr.Next()
			if xerrors.Is(err, stone.EndOfRecords) {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("    meta %s = %s\n", rec.Tag, formatMetaValue(rec.Value))
		}
	case stone.PayloadKindLayout:
		lr, err := p.Layout()
		if err != nil {
			return err
		}
		for {
			rec, err := lr.Next()
			if xerrors.Is(err, stone.EndOfRecords) {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("    layout %s %s uid=%d gid=%d mode=%o\n", rec.Type, rec.Target, rec.UID, rec.GID, rec.Mode)
		}
	case stone.PayloadKindIndex:
		ir, err := p.Index()
		if err != nil {
			return err
		}
		for {
			rec, err := ir.Next()
			if xerrors.Is(err, stone.EndOfRecords) {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("    index [%d,%d) digest=%s\n", rec.Start, rec.End, hex.EncodeToString(rec.Digest[:]))
		}
	case stone.PayloadKindAttributes:
		ar, err := p.Attributes()
		if err != nil {
			return err
		}
		for {
			rec, err := ar.Next()
			if xerrors.Is(err, stone.EndOfRecords) {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("    attribute %s = %s\n", rec.Key, rec.Value)
		}
	case stone.PayloadKindContent:
		cr, err := p.Content()
		if err != nil {
			return err
		}
		n, err := cr.WriteTo(io.Discard)
		cr.Close()
		if err != nil {
			return err
		}
		fmt.Printf("    content: %d bytes, checksum_valid=%v\n", n, cr.IsChecksumValid())
	}
	return nil
}

func formatMetaValue(v stone.MetaValue) string {
	switch v.Type {
	case stone.MetaPrimitiveString:
		return v.String
	case stone.MetaPrimitiveDependency, stone.MetaPrimitiveProvider:
		if v.Dependency != nil {
			return fmt.Sprintf("%s:%s", v.Dependency.Kind, v.Dependency.Name)
		}
		return ""
	case stone.MetaPrimitiveInt8, stone.MetaPrimitiveInt16, stone.MetaPrimitiveInt32, stone.MetaPrimitiveInt64:
		return fmt.Sprintf("%d", v.Int)
	default:
		return fmt.Sprintf("%d", v.Uint)
	}
}
