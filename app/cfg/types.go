package cfg

type Cfg struct {
	// Storage configuration
	SourcesDir string
	DBPath     string

	// Application configuration
	Port         string
	APIAccessKey string
	Schedule     string
	WorkerCount  int

	// Upstream services
	TraktAPIURL   string
	TraktClientID string
	TMDBAPIURL    string
	TMDBAPIKey    string
	LetterboxdURL string

	// Application metadata
	UserAgent string
	Timezone  string
	LogFile   string
	Debug     bool
	Version   string
}
