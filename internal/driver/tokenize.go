package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"mapl/internal/compiler"
	"mapl/internal/diag"
	"mapl/internal/lexer"
	"mapl/internal/source"
	"mapl/internal/token"
)

// TokenizedFile is the token stream of one requested script. Tokens is nil
// when the script could not be read.
type TokenizedFile struct {
	Path   string
	File   source.FileID
	Tokens []token.Token
	Bag    *diag.Bag
}

// Tokenize lexes every path with up to jobs goroutines. Results follow the
// order of paths; unreadable scripts get an IOLoadFileError in their bag.
// The only error returned is ctx's.
func Tokenize(ctx context.Context, paths []string, loader compiler.Loader, maxDiagnostics, jobs int) (*source.FileSet, []TokenizedFile, error) {
	if loader == nil {
		loader = compiler.OSLoader{}
	}
	fs := source.NewFileSet()
	out := make([]TokenizedFile, len(paths))
	// FileSet не потокобезопасен: читаем всё до запуска горутин
	for i, path := range paths {
		out[i] = TokenizedFile{Path: path, Bag: diag.NewBag(maxDiagnostics)}
		content, err := loader.Load(path)
		if err != nil {
			out[i].File = fs.Add(path, nil, source.FileVirtual)
			diag.ReportError(diag.BagReporter{Bag: out[i].Bag}, diag.IOLoadFileError,
				source.Span{File: out[i].File}, "Unable to read script file: "+err.Error()).Emit()
			continue
		}
		out[i].File = fs.AddRaw(path, content, 0)
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i := range out {
		if out[i].Bag.HasErrors() {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := diag.BagReporter{Bag: out[i].Bag}
			out[i].Tokens = lexer.Tokenize(fs.Get(out[i].File), lexer.Options{Reporter: r})
			return nil
		})
	}
	return fs, out, g.Wait()
}
