// Package weights provisions model weight files before the first generation.
package weights

// Source names one upstream repository to mirror into the weights directory.
type Source struct {
	// Repo is the upstream repository id, e.g. "fudan-generative-ai/hallo3".
	Repo string
	// Dest is the directory under the weights root to mirror into.
	Dest string
	// Files restricts the download to specific paths within the repo.
	// Empty means the full snapshot (file list fetched from the hub API).
	Files []string
	// Optional sources log a warning on failure instead of failing the
	// whole download.
	Optional bool
}

// DefaultManifest is the artifact set the generation runtime needs: the main
// checkpoint, the video backbone, the audio encoder, and face detection
// models. Matches what the deployment downloads on first request.
func DefaultManifest() []Source {
	return []Source{
		{Repo: "fudan-generative-ai/hallo3", Dest: "hallo3"},
		{Repo: "THUDM/CogVideoX-5b", Dest: "CogVideoX-5b"},
		{Repo: "facebook/wav2vec2-base-960h", Dest: "wav2vec2-base-960h"},
		{
			Repo: "deepinsight/insightface",
			Dest: "insightface",
			Files: []string{
				"models/buffalo_l/1k3d68.onnx",
				"models/buffalo_l/2d106det.onnx",
				"models/buffalo_l/det_10g.onnx",
				"models/buffalo_l/genderage.onnx",
				"models/buffalo_l/w600k_r50.onnx",
			},
			Optional: true,
		},
	}
}
