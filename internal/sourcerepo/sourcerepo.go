// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sourcerepo clones hosted source repositories using the stored
// account credential for authentication.
package sourcerepo

import (
	"context"
	"fmt"
	"io"
	"os"

	git "github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/googleapis/cloudctl/internal/auth"
)

// CloneOptions describe one clone.
type CloneOptions struct {
	// URL is the repository clone URL.
	URL string

	// Dir is the destination directory; it must not already contain a
	// repository.
	Dir string

	// Credential authenticates the clone. Nil clones anonymously.
	Credential *auth.Credential

	// Progress receives transfer progress, typically stderr. Nil is
	// silent.
	Progress io.Writer
}

// Clone clones a repository. The destination is removed again when the
// clone fails partway, so a retry starts clean.
func Clone(ctx context.Context, opts CloneOptions) error {
	cloneOpts := &git.CloneOptions{
		URL:      opts.URL,
		Progress: opts.Progress,
	}
	if opts.Credential != nil {
		// Hosted repos accept an OAuth token as the basic-auth password.
		cloneOpts.Auth = &githttp.BasicAuth{
			Username: opts.Credential.Account,
			Password: opts.Credential.AccessToken,
		}
	}
	if _, err := git.PlainCloneContext(ctx, opts.Dir, false, cloneOpts); err != nil {
		os.RemoveAll(opts.Dir)
		return fmt.Errorf("cloning %s: %w", opts.URL, err)
	}
	return nil
}

// RepoURL builds the clone URL of a hosted repository.
func RepoURL(host, project, repo string) string {
	return fmt.Sprintf("https://%s/p/%s/r/%s", host, project, repo)
}
