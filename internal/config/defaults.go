package config

const (
	defaultWorkDir              = "~/.local/share/twang/work"
	defaultLogDir               = "~/.local/share/twang/logs"
	defaultHistoryDB            = "~/.local/share/twang/history.db"
	defaultAPIBind              = "127.0.0.1:7914"
	defaultSampleRate           = 16000
	defaultMaxDurationSeconds   = 30
	defaultCepstralCoefficients = 5
	defaultPitchMethod          = "centroid-proxy"
	defaultFetchTimeoutSeconds  = 30
	defaultFetchMaxBodyMiB      = 200
	defaultFetchUserAgent       = "Twang/0.1"
	defaultFFmpegBinary         = "ffmpeg"
	defaultTranscodeTimeout     = 60
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"

	// PitchMethodCentroid selects the spectral-centroid pitch proxy.
	PitchMethodCentroid = "centroid-proxy"
	// PitchMethodPiptrack selects per-frame peak-frequency pitch tracking.
	PitchMethodPiptrack = "piptrack"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Analysis: Analysis{
			SampleRate:           defaultSampleRate,
			MaxDurationSeconds:   defaultMaxDurationSeconds,
			CepstralCoefficients: defaultCepstralCoefficients,
			PitchMethod:          defaultPitchMethod,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeoutSeconds,
			MaxBodyMiB:     defaultFetchMaxBodyMiB,
			UserAgent:      defaultFetchUserAgent,
		},
		Transcode: Transcode{
			FFmpegBinary:   defaultFFmpegBinary,
			TimeoutSeconds: defaultTranscodeTimeout,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Analyses:       true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
