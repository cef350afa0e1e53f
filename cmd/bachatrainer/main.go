package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cheggaaa/pb/v3"

	"github.com/erickrex/bachatrainer/internal/backup"
	"github.com/erickrex/bachatrainer/internal/batch"
	"github.com/erickrex/bachatrainer/internal/config"
	"github.com/erickrex/bachatrainer/internal/detector"
	"github.com/erickrex/bachatrainer/internal/jobs"
	"github.com/erickrex/bachatrainer/internal/modelfile"
	"github.com/erickrex/bachatrainer/internal/pose"
	"github.com/erickrex/bachatrainer/internal/sequence"
	"github.com/erickrex/bachatrainer/internal/stats"
	"github.com/erickrex/bachatrainer/internal/validate"
	"github.com/erickrex/bachatrainer/internal/video"
	"github.com/erickrex/bachatrainer/internal/watcher"
)

const version = "1.2.0"

func main() {
	log.SetFlags(log.LstdFlags)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()

	var err error
	switch os.Args[1] {
	case "extract":
		err = cmdExtract(cfg, os.Args[2:])
	case "batch":
		err = cmdBatch(cfg, os.Args[2:])
	case "regenerate":
		err = cmdRegenerate(cfg, os.Args[2:])
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "stats":
		err = cmdStats(cfg, os.Args[2:])
	case "convert":
		err = cmdConvert(cfg, os.Args[2:])
	case "fetch-model":
		err = cmdFetchModel(cfg, os.Args[2:])
	case "worker":
		err = cmdWorker(cfg, os.Args[2:])
	case "watch":
		err = cmdWatch(cfg, os.Args[2:])
	case "version":
		fmt.Println("bachatrainer " + version)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bachatrainer <command> [flags]

commands:
  extract      extract a pose document from one video
  batch        extract pose documents for every video in a directory
  regenerate   back up, clear and rebuild all pose documents
  validate     check pose documents against the app contract
  stats        per-keypoint confidence report for a pose document
  convert      normalize a video with ffmpeg (720p, cut, remux)
  fetch-model  download a pose model into the model directory
  worker       run the background extraction worker
  watch        watch the videos directory and queue new videos
  version      print the version`)
}

// backendFlags are shared by every command that loads a model.
func backendFlags(fs *flag.FlagSet, cfg *config.Config) (backend, model *string, minConf *float64, nullable *bool) {
	backend = fs.String("backend", cfg.Backend, "pose backend (movenet-lightning, movenet-thunder, yolov8s-pose, stub)")
	model = fs.String("model", cfg.ModelPath, "path to the ONNX model file (default: model directory)")
	minConf = fs.Float64("min-confidence", cfg.MinConfidence, "confidence gate for joint angles")
	nullable = fs.Bool("nullable-angles", cfg.NullableAngles, "encode unmeasurable angles as null instead of 0.0")
	return
}

func openDetector(cfg *config.Config, backend, modelPath string) (detector.Detector, error) {
	if modelPath == "" && backend != detector.KindStub {
		m, err := modelfile.Lookup(backend)
		if err != nil {
			return nil, err
		}
		modelPath = filepath.Join(cfg.ModelDir, m.File)
	}
	return detector.New(backend, modelPath)
}

func newProcessor(cfg *config.Config, backend, modelPath string, minConf float64, nullable bool, outDir string) (*batch.Processor, error) {
	det, err := openDetector(cfg, backend, modelPath)
	if err != nil {
		return nil, err
	}
	return &batch.Processor{
		Detector:  det,
		Calc:      pose.NewCalculator(minConf),
		OutputDir: outDir,
		Options: sequence.Options{
			ProgressEvery:  cfg.ProgressEvery,
			NullableAngles: nullable,
		},
	}, nil
}

func cmdExtract(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	videoPath := fs.String("video", "", "video file to process")
	outDir := fs.String("out", cfg.PosesDir, "output directory for the pose document")
	backend, model, minConf, nullable := backendFlags(fs, cfg)
	fs.Parse(args)
	if *videoPath == "" {
		return fmt.Errorf("-video is required")
	}

	det, err := openDetector(cfg, *backend, *model)
	if err != nil {
		return err
	}
	defer det.Close()

	src, err := video.Open(*videoPath)
	if err != nil {
		return err
	}
	defer src.Close()

	var bar *pb.ProgressBar
	if est := src.EstimatedFrames(); est > 0 {
		bar = pb.Full.Start(est)
	}
	opts := sequence.Options{
		ProgressEvery:  cfg.ProgressEvery,
		NullableAngles: *nullable,
		Progress: func(processed, estimated int) {
			if bar != nil {
				bar.SetCurrent(int64(processed))
			}
		},
	}

	asm := sequence.NewAssembler(det, pose.NewCalculator(*minConf), opts)
	seq := asm.Run(src, video.Stem(*videoPath))
	if bar != nil {
		bar.SetCurrent(int64(seq.TotalFrames))
		bar.Finish()
	}
	if seq.TotalFrames == 0 {
		return fmt.Errorf("%s: no frames decoded", filepath.Base(*videoPath))
	}

	out := filepath.Join(*outDir, video.Stem(*videoPath)+".json")
	if err := sequence.Write(seq, out); err != nil {
		return err
	}
	log.Printf("wrote %s (%d frames at %.2f fps, model %s)", out, seq.TotalFrames, seq.FPS, seq.ModelVersion)
	return nil
}

func cmdBatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	videosDir := fs.String("videos", cfg.VideosDir, "directory of videos to process")
	outDir := fs.String("out", cfg.PosesDir, "output directory for pose documents")
	backend, model, minConf, nullable := backendFlags(fs, cfg)
	fs.Parse(args)

	proc, err := newProcessor(cfg, *backend, *model, *minConf, *nullable, *outDir)
	if err != nil {
		return err
	}
	defer proc.Detector.Close()

	sum, err := proc.Run(*videosDir)
	if err != nil {
		return err
	}
	if sum.Failed() > 0 {
		return fmt.Errorf("%d of %d videos failed", sum.Failed(), len(sum.Results))
	}
	return nil
}

func cmdRegenerate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("regenerate", flag.ExitOnError)
	videosDir := fs.String("videos", cfg.VideosDir, "directory of videos to process")
	outDir := fs.String("out", cfg.PosesDir, "output directory for pose documents")
	backupDir := fs.String("backup", cfg.BackupDir, "directory for snapshots of existing documents")
	skipBackup := fs.Bool("skip-backup", false, "delete existing documents without a snapshot")
	backend, model, minConf, nullable := backendFlags(fs, cfg)
	fs.Parse(args)

	if !*skipBackup {
		snapDir, n, err := backup.Snapshot(*outDir, *backupDir)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("backed up %d documents to %s", n, snapDir)
		}
	}
	if n, err := backup.Clear(*outDir); err != nil {
		return err
	} else if n > 0 {
		log.Printf("cleared %d old documents", n)
	}

	proc, err := newProcessor(cfg, *backend, *model, *minConf, *nullable, *outDir)
	if err != nil {
		return err
	}
	defer proc.Detector.Close()

	sum, err := proc.Run(*videosDir)
	if err != nil {
		return err
	}
	if sum.Failed() > 0 {
		return fmt.Errorf("%d of %d videos failed", sum.Failed(), len(sum.Results))
	}
	return nil
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("at least one pose document is required")
	}

	bad := 0
	for _, path := range fs.Args() {
		ok, errs := validate.File(path)
		if ok {
			log.Printf("OK      %s", path)
			continue
		}
		bad++
		log.Printf("INVALID %s", path)
		for _, e := range errs {
			log.Printf("        - %s", e)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d documents invalid", bad, fs.NArg())
	}
	return nil
}

func cmdStats(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	minConf := fs.Float64("min-confidence", cfg.MinConfidence, "confidence gate used for coverage")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("exactly one pose document is required")
	}

	seq, err := pose.ReadSequence(fs.Arg(0))
	if err != nil {
		return err
	}
	report := stats.Summarize(seq, *minConf)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func cmdConvert(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	input := fs.String("in", "", "input video")
	output := fs.String("out", "", "output video")
	mode := fs.String("mode", "720p", "conversion mode (720p, remux, cut)")
	start := fs.String("start", "", "cut start timestamp (hh:mm:ss)")
	end := fs.String("end", "", "cut end timestamp (hh:mm:ss)")
	fs.Parse(args)
	if *input == "" || *output == "" {
		return fmt.Errorf("-in and -out are required")
	}

	probe := video.NewFFprobe(cfg.FFprobePath)
	logProbe(probe, "in ", *input)

	var err error
	tools := video.NewTools(cfg.FFmpegPath)
	switch *mode {
	case "720p":
		err = tools.To720p(*input, *output)
	case "remux":
		err = tools.RemuxToMP4(*input, *output)
	case "cut":
		if *start == "" || *end == "" {
			return fmt.Errorf("-start and -end are required for cut")
		}
		err = tools.Cut(*input, *start, *end, *output)
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		return err
	}
	logProbe(probe, "out", *output)
	return nil
}

func logProbe(probe *video.FFprobe, label, path string) {
	r, err := probe.Probe(path)
	if err != nil {
		log.Printf("%s %s: probe failed: %v", label, path, err)
		return
	}
	log.Printf("%s %s: %dx%d, %.2f fps, %.1fs", label, path,
		r.GetWidth(), r.GetHeight(), r.GetFrameRate(), r.GetDurationSeconds())
}

func cmdFetchModel(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("fetch-model", flag.ExitOnError)
	name := fs.String("name", cfg.Backend, "model to fetch")
	dir := fs.String("dir", cfg.ModelDir, "model directory")
	baseURL := fs.String("base-url", cfg.ModelBaseURL, "override the model download URL")
	fs.Parse(args)

	f := modelfile.NewFetcher(*baseURL, *dir)
	f.Progress = true
	path, err := f.Fetch(*name)
	if err != nil {
		return err
	}
	log.Printf("model ready at %s", path)
	return nil
}

func cmdWorker(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("worker", flag.ExitOnError)
	backend, model, minConf, nullable := backendFlags(fs, cfg)
	fs.Parse(args)

	log.Printf("bachatrainer %s worker starting...", version)

	proc, err := newProcessor(cfg, *backend, *model, *minConf, *nullable, cfg.PosesDir)
	if err != nil {
		return err
	}
	defer proc.Detector.Close()

	queue := jobs.NewQueue(cfg.RedisAddr)
	jobs.RegisterHandlers(queue, proc)
	if err := queue.Start(context.Background()); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	queue.Stop()
	return nil
}

func cmdWatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	videosDir := fs.String("videos", cfg.VideosDir, "directory to watch for new videos")
	outDir := fs.String("out", cfg.PosesDir, "output directory for pose documents")
	fs.Parse(args)

	log.Printf("bachatrainer %s watcher starting...", version)

	queue := jobs.NewQueue(cfg.RedisAddr)
	defer queue.Stop()

	w, err := watcher.New(*videosDir, func(path string) {
		payload := jobs.ExtractPayload{VideoPath: path, OutputDir: *outDir}
		id, err := queue.EnqueueUnique(jobs.TaskExtractPoses, payload, "extract:"+filepath.Base(path))
		if err != nil {
			log.Printf("enqueue %s: %v", filepath.Base(path), err)
			return
		}
		log.Printf("queued extraction %s for %s", id, filepath.Base(path))
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	return nil
}
