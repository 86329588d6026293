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

// Package iamutil grants roles on resources through get/set IAM policy.
// Missing permission to set a policy is reported as a warning, not a
// failure: the calling command's primary work has already succeeded and an
// administrator can grant the listed roles afterwards.
package iamutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"cloud.google.com/go/iam/apiv1/iampb"
	"github.com/googleapis/cloudctl/internal/transport"
	"google.golang.org/protobuf/encoding/protojson"
)

// PolicyClient reads and writes one resource's IAM policy.
type PolicyClient interface {
	GetIamPolicy(ctx context.Context, resource string) (*iampb.Policy, error)
	SetIamPolicy(ctx context.Context, resource string, policy *iampb.Policy) (*iampb.Policy, error)
}

// EnsureRoles grants member each role on resource, preserving existing
// bindings. Roles already granted are left alone; when nothing is missing
// no write happens. A permission-denied on the write logs the outstanding
// roles and returns nil.
func EnsureRoles(ctx context.Context, client PolicyClient, resource, member string, roles []string) error {
	policy, err := client.GetIamPolicy(ctx, resource)
	if err != nil {
		return fmt.Errorf("reading policy of %s: %w", resource, err)
	}

	var missing []string
	for _, role := range roles {
		if addBinding(policy, role, member) {
			missing = append(missing, role)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if _, err := client.SetIamPolicy(ctx, resource, policy); err != nil {
		var apiErr *transport.Error
		if errors.As(err, &apiErr) && apiErr.HTTPCode == http.StatusForbidden {
			slog.Warn("could not grant roles; ask an administrator to grant them",
				"resource", resource,
				"member", member,
				"roles", strings.Join(missing, ", "))
			return nil
		}
		return fmt.Errorf("updating policy of %s: %w", resource, err)
	}
	return nil
}

// addBinding adds member to the binding for role, creating the binding when
// absent. It reports whether the policy changed.
func addBinding(policy *iampb.Policy, role, member string) bool {
	for _, b := range policy.GetBindings() {
		if b.GetRole() != role {
			continue
		}
		if slices.Contains(b.GetMembers(), member) {
			return false
		}
		b.Members = append(b.Members, member)
		return true
	}
	policy.Bindings = append(policy.Bindings, &iampb.Binding{
		Role:    role,
		Members: []string{member},
	})
	return true
}

// RESTClient implements PolicyClient over the custom getIamPolicy and
// setIamPolicy methods of a REST service.
type RESTClient struct {
	Client *transport.Client

	// APIVersion prefixes resource names on the wire, e.g. "v1".
	APIVersion string
}

func (c *RESTClient) GetIamPolicy(ctx context.Context, resource string) (*iampb.Policy, error) {
	out, err := c.Client.CallPath(ctx, http.MethodPost, c.APIVersion+"/"+resource+":getIamPolicy", map[string]any{})
	if err != nil {
		return nil, err
	}
	return decodePolicy(out)
}

func (c *RESTClient) SetIamPolicy(ctx context.Context, resource string, policy *iampb.Policy) (*iampb.Policy, error) {
	data, err := protojson.Marshal(policy)
	if err != nil {
		return nil, err
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	out, err := c.Client.CallPath(ctx, http.MethodPost, c.APIVersion+"/"+resource+":setIamPolicy", map[string]any{"policy": msg})
	if err != nil {
		return nil, err
	}
	return decodePolicy(out)
}

func decodePolicy(raw map[string]any) (*iampb.Policy, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	policy := &iampb.Policy{}
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := opts.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("decoding policy: %w", err)
	}
	return policy, nil
}
