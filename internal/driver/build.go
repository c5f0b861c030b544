package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"mapl/internal/buildpipeline"
	"mapl/internal/compiler"
	"mapl/internal/observ"
	"mapl/internal/project"
	"mapl/internal/source"
	"mapl/internal/trace"
)

// BuildRequest describes one invocation of the build pipeline.
type BuildRequest struct {
	Scripts []project.ScriptEntry
	// Symbols is the path of the generated C header.
	Symbols string
	// Prefix names the enum in the header. Empty means the Symbols file stem.
	Prefix         string
	Debug          bool
	MaxDiagnostics int
	Jobs           int
	Cache          *BuildCache
	Progress       buildpipeline.ProgressSink
	Tracer         trace.Tracer
	Loader         compiler.Loader
}

// BuildResult reports what a build did. Compile is nil when the artifacts
// came from the cache or the dependency scan already failed.
type BuildResult struct {
	Deps    *DepsResult
	Compile *compiler.Result
	Cached  bool
	// Written lists every file written, bytecode first and the header last.
	Written []string
	Timings buildpipeline.Timings
	Timer   *observ.Timer
}

// ErrNoScripts is returned when a build request names no scripts.
var ErrNoScripts = errors.New("no scripts to build")

// Build compiles req.Scripts and writes the bytecode files and the symbol
// table. Compile errors are returned as a *compiler.Error.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	res := BuildResult{Timer: observ.NewTimer()}
	if len(req.Scripts) == 0 {
		return res, ErrNoScripts
	}
	if err := validateRequest(req); err != nil {
		return res, err
	}
	prefix := req.Prefix
	if prefix == "" {
		prefix = project.SymbolsPrefix(req.Symbols)
	}
	tracer := req.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	span := trace.Begin(tracer, trace.ScopeDriver, "build", 0)
	defer span.End("")

	files := make([]string, len(req.Scripts))
	for i, s := range req.Scripts {
		files[i] = source.NormalizePath(s.Path)
	}
	sink := req.Progress
	buildpipeline.EmitQueued(sink, files)

	// parse: граф импортов и дайджесты для ключа кэша
	start := time.Now()
	endPhase := res.Timer.Track(string(buildpipeline.StageParse))
	buildpipeline.EmitStage(sink, files, buildpipeline.StageParse, buildpipeline.StatusWorking, nil, 0)
	res.Deps = Deps(files, req.Loader, req.MaxDiagnostics)
	elapsed := time.Since(start)
	res.Timings.Set(buildpipeline.StageParse, elapsed)
	endPhase(fmt.Sprintf("%d scripts", len(res.Deps.Slots)))
	buildpipeline.EmitStage(sink, files, buildpipeline.StageParse, buildpipeline.StatusDone, nil, elapsed)

	key, cacheable := buildKey(res.Deps, req.Debug, prefix)
	cacheable = cacheable && req.Cache != nil
	var payload BuildPayload
	if cacheable {
		hit, err := req.Cache.Get(key, &payload)
		if err != nil {
			// испорченная запись кэша означает просто промах
			hit = false
			payload = BuildPayload{}
		}
		if hit {
			res.Cached = true
			buildpipeline.EmitStage(sink, files, buildpipeline.StageCompile, buildpipeline.StatusCached, nil, 0)
			buildpipeline.EmitStage(sink, nil, buildpipeline.StageSymbols, buildpipeline.StatusCached, nil, 0)
		}
	}

	if !res.Cached {
		start = time.Now()
		endPhase = res.Timer.Track(string(buildpipeline.StageCompile))
		buildpipeline.EmitStage(sink, nil, buildpipeline.StageCompile, buildpipeline.StatusWorking, nil, 0)
		comp := compiler.Compile(files, compiler.Options{
			IncludeDebugBytes: req.Debug,
			SymbolsPrefix:     prefix,
			Loader:            req.Loader,
			MaxDiagnostics:    req.MaxDiagnostics,
			Tracer:            tracer,
			OnUnit: func(path string, failed bool) {
				status := buildpipeline.StatusDone
				if failed {
					status = buildpipeline.StatusError
				}
				buildpipeline.EmitFile(sink, path, buildpipeline.StageCompile, status, nil)
			},
		})
		res.Compile = comp
		elapsed = time.Since(start)
		res.Timings.Set(buildpipeline.StageCompile, elapsed)
		endPhase(fmt.Sprintf("%d diagnostics", comp.Diagnostics.Len()))

		if err := comp.Err(); err != nil {
			buildpipeline.EmitStage(sink, nil, buildpipeline.StageCompile, buildpipeline.StatusError, err, elapsed)
			return res, err
		}
		buildpipeline.EmitStage(sink, nil, buildpipeline.StageCompile, buildpipeline.StatusDone, nil, elapsed)
		buildpipeline.EmitStage(sink, nil, buildpipeline.StageSymbols, buildpipeline.StatusDone, nil, 0)
		payload = BuildPayload{
			Order:       comp.Order,
			Files:       comp.Files,
			SymbolTable: comp.SymbolTable,
			Symbols:     comp.Symbols,
		}
	}

	start = time.Now()
	endPhase = res.Timer.Track(string(buildpipeline.StageWrite))
	buildpipeline.EmitStage(sink, files, buildpipeline.StageWrite, buildpipeline.StatusWorking, nil, 0)
	written, err := writeArtifacts(ctx, req, files, &payload)
	elapsed = time.Since(start)
	res.Timings.Set(buildpipeline.StageWrite, elapsed)
	endPhase(fmt.Sprintf("%d files", len(written)))
	res.Written = written
	if err != nil {
		buildpipeline.EmitStage(sink, files, buildpipeline.StageWrite, buildpipeline.StatusError, err, elapsed)
		return res, err
	}
	buildpipeline.EmitStage(sink, files, buildpipeline.StageWrite, buildpipeline.StatusDone, nil, elapsed)

	if cacheable && !res.Cached {
		if err := req.Cache.Put(key, &payload); err != nil {
			return res, fmt.Errorf("build cache: %w", err)
		}
	}
	return res, nil
}

func validateRequest(req *BuildRequest) error {
	for _, s := range req.Scripts {
		if err := project.CheckExt("script file", s.Path, project.SourceExt); err != nil {
			return err
		}
		if err := project.CheckExt("output", s.Output, project.BytecodeExt); err != nil {
			return err
		}
	}
	return project.CheckExt("symbol table", req.Symbols, project.SymbolsExt)
}

// buildKey digests everything the artifacts depend on: the closure of every
// root in request order plus the options that change the output. A build
// whose graph is incomplete or cyclic has no key.
func buildKey(deps *DepsResult, debug bool, prefix string) (project.Digest, bool) {
	if deps.Failed() || deps.Topo == nil || deps.Topo.Cyclic {
		return project.Digest{}, false
	}
	opts := project.Sum([]byte(strconv.FormatBool(debug) + "\x00" + prefix + "\x00" + strconv.Itoa(int(buildCacheSchemaVersion))))
	closures := make([]project.Digest, 0, len(deps.Roots))
	var zero project.Digest
	for _, root := range deps.Roots {
		slot, ok := deps.Script(root)
		if !ok || slot.Meta.ClosureHash == zero {
			return project.Digest{}, false
		}
		closures = append(closures, slot.Meta.ClosureHash)
	}
	return project.Combine(opts, closures...), true
}

// writeArtifacts writes every bytecode file in parallel, then the header.
func writeArtifacts(ctx context.Context, req *BuildRequest, files []string, payload *BuildPayload) ([]string, error) {
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	written := make([]string, len(req.Scripts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Scripts)))
	for i, s := range req.Scripts {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			code, ok := payload.Files[files[i]]
			if !ok {
				return fmt.Errorf("no bytecode produced for %s", files[i])
			}
			if err := writeFileAtomic(s.Output, code); err != nil {
				buildpipeline.EmitFile(req.Progress, files[i], buildpipeline.StageWrite, buildpipeline.StatusError, err)
				return err
			}
			written[i] = s.Output
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compact(written), err
	}
	if err := writeFileAtomic(req.Symbols, []byte(payload.SymbolTable)); err != nil {
		return written, err
	}
	return append(written, req.Symbols), nil
}

func compact(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
