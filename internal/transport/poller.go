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

package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/longrunning/autogen/longrunningpb"
	"google.golang.org/protobuf/encoding/protojson"
)

// OperationPoller fetches operation state over REST. It accepts both bare
// names ("operations/op-1") and fully qualified ones
// ("projects/p/locations/l/operations/op-1").
type OperationPoller struct {
	client *Client

	// APIVersion prefixes operation names on the wire, e.g. "v1".
	APIVersion string
}

// NewOperationPoller returns a poller over an existing client.
func NewOperationPoller(client *Client, apiVersion string) *OperationPoller {
	return &OperationPoller{client: client, APIVersion: apiVersion}
}

// Poll fetches the current state of one operation.
func (p *OperationPoller) Poll(ctx context.Context, name string) (*longrunningpb.Operation, error) {
	if !strings.Contains(name, "operations/") {
		return nil, fmt.Errorf("malformed operation name %q", name)
	}
	u := p.client.endpoint + "/" + p.APIVersion + "/" + strings.TrimPrefix(name, "/")
	raw, err := p.client.once(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	// Round-trip through JSON so protojson handles the proto field rules.
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	op := &longrunningpb.Operation{}
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := opts.Unmarshal(data, op); err != nil {
		return nil, fmt.Errorf("decoding operation %s: %w", name, err)
	}
	return op, nil
}
