// Package installer bootstraps the GitHub CLI when it is missing. Preference
// order: an existing install on PATH, then Homebrew, then a direct download
// of the latest gh release archive from the GitHub API.
package installer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"jobdash/internal/execx"
	"jobdash/internal/logger"
	"jobdash/internal/state"
)

// releaseAPI is the endpoint describing the newest gh release.
const releaseAPI = "https://api.github.com/repos/cli/cli/releases/latest"

// release mirrors the fields of the GitHub release JSON we care about.
type release struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// EnsureGH makes the gh CLI available, recording in st when this run did the
// install. It returns an error only when every install strategy failed.
func EnsureGH(runner execx.Runner, st *state.State) error {
	if _, err := runner.LookPath("gh"); err == nil {
		logger.Debug("[DEBUG] gh already on PATH\n")
		return nil
	}

	if _, err := runner.LookPath("brew"); err == nil {
		logger.Info("[INFO] gh not found. Installing via Homebrew...\n")
		out, err := runner.Run("", "brew", "install", "gh")
		if err != nil {
			return fmt.Errorf("brew install gh failed: %v\n%s", err, out)
		}
		installPath, _ := runner.LookPath("gh")
		st.Tools["gh"] = state.ToolState{
			Version:          "latest",
			InstallPath:      installPath,
			InstalledBySetup: true,
		}
		return nil
	}

	logger.Info("[INFO] gh not found and Homebrew unavailable. Downloading release archive...\n")
	installPath, version, err := installFromRelease()
	if err != nil {
		return fmt.Errorf("could not install gh: %w", err)
	}
	st.Tools["gh"] = state.ToolState{
		Version:          version,
		InstallPath:      installPath,
		InstalledBySetup: true,
	}
	logger.Info("[INFO] Installed gh %s to %s\n", version, installPath)
	return nil
}

// installFromRelease fetches the latest gh release metadata, downloads the
// asset matching this OS and architecture, extracts it, and installs the gh
// binary. Returns the final binary path and the release tag.
func installFromRelease() (string, string, error) {
	rel, err := fetchLatestRelease()
	if err != nil {
		return "", "", err
	}

	assetURL, assetName, err := pickAsset(rel)
	if err != nil {
		return "", "", err
	}

	tmpDir, err := os.MkdirTemp("", "jobdash-gh-*")
	if err != nil {
		return "", "", err
	}
	defer os.RemoveAll(tmpDir)

	archive := filepath.Join(tmpDir, path.Base(assetName))
	logger.Debug("[DEBUG] Downloading %s to %s\n", assetURL, archive)
	if err := downloadFile(assetURL, archive); err != nil {
		return "", "", err
	}

	extracted, err := Unpack(archive, tmpDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract %s: %w", assetName, err)
	}

	binary, err := FindExecutable(extracted, "gh")
	if err != nil {
		return "", "", err
	}

	installed, err := installBinary(binary)
	if err != nil {
		return "", "", err
	}
	return installed, rel.TagName, nil
}

func fetchLatestRelease() (*release, error) {
	resp, err := http.Get(releaseAPI)
	if err != nil {
		return nil, fmt.Errorf("fetching gh release metadata: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gh release fetch returned HTTP %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decoding gh release JSON: %w", err)
	}
	logger.Debug("[DEBUG] Latest gh release is %s with %d assets\n", rel.TagName, len(rel.Assets))
	return &rel, nil
}

// pickAsset selects the release asset for the local OS/arch among the archive
// formats the extractor understands.
func pickAsset(rel *release) (url, name string, err error) {
	osName := runtime.GOOS
	arch := runtime.GOARCH
	if osName == "darwin" {
		// gh names its macOS assets "macOS".
		osName = "macos"
	}

	for _, asset := range rel.Assets {
		lower := strings.ToLower(asset.Name)
		if !strings.Contains(lower, osName) || !strings.Contains(lower, arch) {
			continue
		}
		if supportedArchive(lower) {
			logger.Debug("[DEBUG] Selected asset %s\n", asset.Name)
			return asset.BrowserDownloadURL, asset.Name, nil
		}
	}
	return "", "", fmt.Errorf("no %s/%s archive in release %s", runtime.GOOS, runtime.GOARCH, rel.TagName)
}

func supportedArchive(name string) bool {
	for _, ext := range []string{".zip", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".7z"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// downloadFile saves the content at url to destPath.
func downloadFile(url, destPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s returned HTTP %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close %s: %v\n", destPath, cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

// installBinary copies the extracted binary into /usr/local/bin, falling back
// to ~/bin when the system location is not writable.
func installBinary(src string) (string, error) {
	if dst, err := copyExecutable(src, "/usr/local/bin"); err == nil {
		return dst, nil
	}

	homeBin := filepath.Join(os.Getenv("HOME"), "bin")
	if err := os.MkdirAll(homeBin, 0755); err != nil {
		return "", fmt.Errorf("cannot create fallback bin directory: %w", err)
	}
	dst, err := copyExecutable(src, homeBin)
	if err != nil {
		return "", fmt.Errorf("failed to install binary to fallback location: %w", err)
	}
	logger.Warn("[WARN] Installed gh to %s; make sure it is on your PATH\n", dst)
	return dst, nil
}

func copyExecutable(src, dstDir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := filepath.Join(dstDir, filepath.Base(src))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", err
	}
	return dst, nil
}
