package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"buble/internal/buildpipeline"
	"buble/internal/diag"
	"buble/internal/project"
	"buble/internal/source"
	"buble/internal/trace"
)

// FileResult is the outcome of one input of a build.
type FileResult struct {
	Path    string // входной файл
	Display string // имя для прогресса и диагностик
	OutPath string
	Cached  bool
	Err     error
}

// BuildResult collects the outcome of a build.
type BuildResult struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	Files   []FileResult
	Elapsed time.Duration
}

// Failed counts inputs that produced no output.
func (r *BuildResult) Failed() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Err != nil {
			n++
		}
	}
	return n
}

// Builder compiles the inputs of a project into its output directory. A
// Builder remembers results between builds, so reusing it in watch mode
// only recompiles what changed.
type Builder struct {
	cfg  *project.Config
	opts Options
	mem  *MemCache

	// Jobs limits parallel compiles; zero means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the diagnostics of one build.
	MaxDiagnostics int
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg *project.Config, opts Options) *Builder {
	return &Builder{
		cfg:            cfg,
		opts:           opts,
		mem:            NewMemCache(64),
		Jobs:           cfg.Jobs,
		MaxDiagnostics: 100,
	}
}

// Build compiles every input of cfg once.
func Build(ctx context.Context, cfg *project.Config, sink buildpipeline.ProgressSink) (*BuildResult, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewBuilder(cfg, opts).Build(ctx, sink)
}

// Root is the project directory paths are displayed against.
func (b *Builder) Root() string { return b.cfg.Root }

// Sources returns the sorted list of inputs under the source directory.
func (b *Builder) Sources() ([]string, error) {
	var files []string
	root := b.cfg.SrcDir()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && b.cfg.Skips(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if b.cfg.Matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// OutputPath maps an input to its output file: the same relative path
// under the output directory, with .jsx becoming .js.
func (b *Builder) OutputPath(input string) (string, error) {
	rel, err := filepath.Rel(b.cfg.SrcDir(), input)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the source directory %s", input, b.cfg.SrcDir())
	}
	if strings.EqualFold(filepath.Ext(rel), ".jsx") {
		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".js"
	}
	return filepath.Join(b.cfg.OutPath(), rel), nil
}

// Build compiles every input.
func (b *Builder) Build(ctx context.Context, sink buildpipeline.ProgressSink) (*BuildResult, error) {
	files, err := b.Sources()
	if err != nil {
		return nil, err
	}
	return b.BuildFiles(ctx, files, sink)
}

// BuildFiles compiles the given inputs in parallel. Problems with single
// files end up in the diagnostics; the error is reserved for cancellation.
func (b *Builder) BuildFiles(ctx context.Context, files []string, sink buildpipeline.ProgressSink) (*BuildResult, error) {
	started := time.Now()
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "build")
	span.WithExtra("files", fmt.Sprint(len(files)))
	defer span.End("")

	fileSet := source.NewFileSet()
	fileSet.SetBaseDir(b.cfg.Root)
	result := &BuildResult{
		FileSet: fileSet,
		Bag:     diag.NewBag(b.MaxDiagnostics),
		Files:   make([]FileResult, len(files)),
	}
	if len(files) == 0 {
		return result, nil
	}

	for i, path := range files {
		result.Files[i] = FileResult{Path: path, Display: buildpipeline.DisplayPath(path, b.cfg.Root)}
	}
	display := make([]string, len(files))
	for i := range result.Files {
		display[i] = result.Files[i].Display
	}
	buildpipeline.EmitQueued(sink, display)

	// Предзагружаем все файлы: FileSet не потокобезопасен
	fileIDs := make([]source.FileID, len(files))
	loaded := make([]bool, len(files))
	reporter := &diag.LockedReporter{Next: diag.BagReporter{Bag: result.Bag}}
	for i, path := range files {
		res := &result.Files[i]
		buildpipeline.Emit(sink, res.Display, buildpipeline.StageLoad, buildpipeline.StatusWorking, nil, 0)
		fileID, err := fileSet.Load(path)
		if err != nil {
			res.Err = err
			reportFileError(reporter, res)
			buildpipeline.Emit(sink, res.Display, buildpipeline.StageLoad, buildpipeline.StatusError, err, 0)
			continue
		}
		fileIDs[i] = fileID
		loaded[i] = true
	}

	// Настраиваем параллелизм
	jobs := b.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i := range files {
		if !loaded[i] {
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			b.buildOne(gctx, fileSet.Get(fileIDs[i]), &result.Files[i], sink)
			reportFileError(reporter, &result.Files[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}

	result.Bag.Sort()
	result.Elapsed = time.Since(started)

	status := buildpipeline.StatusDone
	if result.Failed() > 0 {
		status = buildpipeline.StatusError
	}
	buildpipeline.Emit(sink, "", buildpipeline.StageBuild, status, nil, result.Elapsed)
	return result, nil
}

func (b *Builder) buildOne(ctx context.Context, file *source.File, res *FileResult, sink buildpipeline.ProgressSink) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+res.Display)
	started := time.Now()
	hook := func(s buildpipeline.Stage, status buildpipeline.Status, err error) {
		buildpipeline.Emit(sink, res.Display, s, status, err, time.Since(started))
	}
	defer func() {
		if res.Err != nil {
			span.End("error")
		} else {
			span.End("")
		}
	}()

	out, err := b.OutputPath(res.Path)
	if err != nil {
		res.Err = err
		hook(buildpipeline.StageLoad, buildpipeline.StatusError, err)
		return
	}
	res.OutPath = out

	// the map names both files relative to the project root; magic turns
	// the source into a path relative to the output
	opts := b.opts
	opts.Transform.File = b.rootRelative(out)
	opts.Transform.Source = b.rootRelative(res.Path)

	key := CacheKey(project.Digest(file.Hash), opts.Transform)
	compiled, hit := b.mem.Get(res.Path, key)
	if hit {
		if _, statErr := os.Stat(out); statErr == nil {
			res.Cached = true
			hook(buildpipeline.StageEmit, buildpipeline.StatusCached, nil)
			return
		}
	} else {
		compiled, err = compile(ctx, file, opts, hook)
		if err != nil {
			res.Err = err
			return
		}
		b.mem.Put(res.Path, key, compiled)
	}

	hook(buildpipeline.StageEmit, buildpipeline.StatusWorking, nil)
	if err := writeOutput(out, compiled, b.opts.SourceMap); err != nil {
		res.Err = err
		hook(buildpipeline.StageEmit, buildpipeline.StatusError, err)
		return
	}
	res.Cached = compiled.Cached
	if res.Cached {
		hook(buildpipeline.StageEmit, buildpipeline.StatusCached, nil)
	} else {
		hook(buildpipeline.StageEmit, buildpipeline.StatusDone, nil)
	}
}

func (b *Builder) rootRelative(path string) string {
	if rel, err := filepath.Rel(b.cfg.Root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

// writeOutput writes the code and, in file mode, the map next to it.
func writeOutput(out string, res *Result, mode project.SourceMapMode) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	mapName := filepath.Base(out) + ".map"
	if err := os.WriteFile(out, []byte(res.Render(mode, mapName)+"\n"), 0o644); err != nil {
		return err
	}
	if mode == project.SourceMapFile && res.Map != nil {
		return os.WriteFile(out+".map", []byte(res.Map.String()), 0o644)
	}
	return nil
}

// reportFileError turns the error of a file into a diagnostic.
func reportFileError(r diag.Reporter, res *FileResult) {
	if res.Err == nil {
		return
	}
	var ce *diag.CompileError
	if errors.As(res.Err, &ce) {
		r.Report(ce.Code, ce.Severity, ce.Primary, ce.Message, ce.Notes)
		return
	}
	code := diag.IOWriteFileError
	if res.OutPath == "" {
		code = diag.IOLoadFileError
	}
	diag.ReportError(r, code, source.FileSpan(source.NoFileID), res.Display+": "+res.Err.Error()).Emit()
}
