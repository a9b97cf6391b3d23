package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/dotman/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/dotman/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/dotman/internal/version.Date={{.Date}}
)

// String renders the version block printed by `dotman version`
func String() string {
	s := "dotman version " + Version + "\n"
	if Commit != "" && Commit != "unknown" {
		s += "Commit: " + Commit + "\n"
	}
	if Date != "" && Date != "unknown" {
		s += "Built:  " + Date + "\n"
	}
	return s
}
