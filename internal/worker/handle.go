package worker

import (
	"context"
	"fmt"
	"time"

	"hallod/internal/generator"
	"hallod/internal/media"
	"hallod/pkg/types"
)

// Handle runs one job end to end: validate and decode inputs, ensure weights
// and the resident generator, generate, and encode the result. All errors are
// returned in the result; nothing is retried here.
func (w *Worker) Handle(ctx context.Context, in types.JobInput) (types.JobOutput, error) {
	release, err := w.acquire(ctx)
	if err != nil {
		w.recordFailure(err)
		return types.JobOutput{}, err
	}
	defer release()

	out, err := w.handleLocked(ctx, in)
	if err != nil {
		w.recordFailure(err)
		return types.JobOutput{}, err
	}
	w.recordSuccess()
	return out, nil
}

func (w *Worker) handleLocked(ctx context.Context, in types.JobInput) (types.JobOutput, error) {
	// Validation first: a bad payload must never reach the generator.
	imageBytes, err := media.DecodeField("image", in.Image, w.cfg.MaxImageBytes)
	if err != nil {
		return types.JobOutput{}, validationError{msg: err.Error()}
	}
	imageKind, err := media.DetectImage(imageBytes)
	if err != nil {
		return types.JobOutput{}, validationError{msg: "image: " + err.Error()}
	}
	audioBytes, err := media.DecodeField("audio", in.Audio, w.cfg.MaxAudioBytes)
	if err != nil {
		return types.JobOutput{}, validationError{msg: err.Error()}
	}
	wavInfo, err := media.ParseWAV(audioBytes)
	if err != nil {
		return types.JobOutput{}, validationError{msg: "audio: " + err.Error()}
	}

	prompt := in.Prompt
	if prompt == "" {
		prompt = w.cfg.DefaultPrompt
	}
	if in.DrivingVideo != "" {
		// Motion is derived from audio; the field is accepted for
		// compatibility with older clients.
		w.cfg.Log.Info().Msg("driving_video provided but motion is generated from audio; ignoring")
	}

	if w.cfg.Weights != nil {
		if err := w.cfg.Weights.Ensure(ctx); err != nil {
			return types.JobOutput{}, unavailableError{msg: "model weights unavailable: " + err.Error()}
		}
	}
	if w.cfg.Generator == nil {
		return types.JobOutput{}, unavailableError{msg: "no generator configured"}
	}

	temps := media.NewTempSet(w.cfg.ScratchDir)
	defer temps.Cleanup()

	imagePath, err := temps.Write(imageKind.SuffixFor(), imageBytes)
	if err != nil {
		return types.JobOutput{}, err
	}
	audioPath, err := temps.Write(".wav", audioBytes)
	if err != nil {
		return types.JobOutput{}, err
	}
	if w.cfg.Resampler.Needed(wavInfo) {
		w.cfg.Log.Info().
			Int("sample_rate", wavInfo.SampleRate).
			Int("channels", wavInfo.Channels).
			Msg("converting audio for generation")
		converted := temps.Path(".wav")
		if err := w.cfg.Resampler.Resample(ctx, audioPath, converted); err != nil {
			return types.JobOutput{}, validationError{msg: err.Error()}
		}
		audioPath = converted
	}

	outputPath := temps.Path(".mp4")
	genCtx, cancel := context.WithTimeout(ctx, w.cfg.ExecTimeout)
	defer cancel()
	start := time.Now()
	if err := w.generate(genCtx, generator.Request{
		ImagePath:  imagePath,
		AudioPath:  audioPath,
		Prompt:     prompt,
		OutputPath: outputPath,
	}); err != nil {
		if genCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return types.JobOutput{}, timeoutError{limit: w.cfg.ExecTimeout}
		}
		return types.JobOutput{}, err
	}
	w.cfg.Log.Info().Dur("dur", time.Since(start)).Msg("generation complete")

	video, err := media.EncodeFile(outputPath)
	if err != nil {
		return types.JobOutput{}, fmt.Errorf("encode output video: %w", err)
	}
	return types.JobOutput{Video: video}, nil
}

// generate invokes the resident generator, converting a panic in the runtime
// binding into an error so the job still gets a response.
func (w *Worker) generate(ctx context.Context, req generator.Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return w.cfg.Generator.Generate(ctx, req)
}
