package daemon

import (
	"html/template"
	"net/http"
	"strings"

	"twang/internal/logging"
	"twang/internal/profiles"
	"twang/internal/services"
)

// indexView feeds the analysis form page. Result and Error are mutually
// exclusive; both nil/empty renders the bare form.
type indexView struct {
	Result *indexResult
	Error  string
}

type indexResult struct {
	Accent      string
	Confidence  float64
	Explanation string
}

var indexPage = template.Must(template.New("index").Parse(indexTemplate))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.renderIndex(w, indexView{})
	case http.MethodPost:
		s.handleFormSubmit(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderIndex(w, indexView{Error: "Please provide a video URL"})
		return
	}
	rawURL := strings.TrimSpace(r.PostFormValue("video_url"))
	if rawURL == "" {
		s.renderIndex(w, indexView{Error: "Please provide a video URL"})
		return
	}

	outcome, err := s.analyzer.Analyze(r.Context(), rawURL)
	if err != nil {
		s.renderIndex(w, indexView{Error: services.UserMessage(err)})
		return
	}
	s.renderIndex(w, indexView{Result: &indexResult{
		Accent:      profiles.DisplayName(outcome.Accent),
		Confidence:  outcome.Confidence,
		Explanation: outcome.Explanation,
	}})
}

func (s *Server) renderIndex(w http.ResponseWriter, view indexView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, view); err != nil {
		s.log().Error("failed to render index page", logging.Error(err))
	}
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Accent Analysis Tool</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
        .container { background: #f5f5f5; padding: 20px; border-radius: 10px; margin: 20px 0; }
        .result { background: #e8f5e8; padding: 15px; border-radius: 5px; margin: 10px 0; }
        .error { background: #f5e8e8; padding: 15px; border-radius: 5px; margin: 10px 0; }
        input[type="url"] { width: 100%; padding: 10px; margin: 10px 0; }
        button { background: #007cba; color: white; padding: 10px 20px; border: none; border-radius: 5px; cursor: pointer; }
        button:hover { background: #005a87; }
        .loading { display: none; color: #007cba; font-weight: bold; }
        .confidence-bar { background: #ddd; height: 20px; border-radius: 10px; margin: 10px 0; }
        .confidence-fill { background: #4CAF50; height: 100%; border-radius: 10px; transition: width 0.3s ease; }
    </style>
</head>
<body>
    <h1>Accent Analysis Tool</h1>
    <p>Analyze spoken English accents from video URLs</p>

    <div class="container">
        <form method="POST" onsubmit="showLoading()">
            <label for="video_url">Video URL:</label>
            <input type="url" id="video_url" name="video_url" placeholder="https://example.com/video.mp4 or Loom link" required>
            <br>
            <button type="submit">Analyze Accent</button>
        </form>
        <div class="loading" id="loading">Processing video... This may take a few moments.</div>
    </div>

    {{if .Result}}
    <div class="result">
        <h3>Analysis Results:</h3>
        <p><strong>Detected Accent:</strong> {{.Result.Accent}}</p>
        <p><strong>Confidence Score:</strong> {{printf "%.1f" .Result.Confidence}}%</p>
        <div class="confidence-bar">
            <div class="confidence-fill" style="width: {{.Result.Confidence}}%"></div>
        </div>
        <p><strong>Explanation:</strong> {{.Result.Explanation}}</p>
    </div>
    {{end}}

    {{if .Error}}
    <div class="error">
        <strong>Error:</strong> {{.Error}}
    </div>
    {{end}}

    <div class="container">
        <h3>Supported URLs:</h3>
        <ul>
            <li>Direct video links (.mp4, .avi, .mov, etc.)</li>
            <li>Loom recordings</li>
            <li>Other public video hosting platforms</li>
        </ul>

        <h3>How it works:</h3>
        <p>The tool downloads the video, extracts audio, analyzes acoustic features like pitch patterns,
        formant frequencies, and speaking rate, then classifies the accent using pattern matching.</p>
    </div>

    <script>
        function showLoading() {
            document.getElementById('loading').style.display = 'block';
        }
    </script>
</body>
</html>
`
