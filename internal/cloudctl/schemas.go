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

package cloudctl

import (
	"net/http"

	"github.com/googleapis/cloudctl/internal/resource"
	"github.com/googleapis/cloudctl/internal/schema"
)

const (
	defaultEndpoint = "https://cloud.googleapis.com"
	apiVersion      = "v1"

	// sourceHost serves hosted repository clones.
	sourceHost = "source.developers.google.com"
)

// instanceTemplate is the compute instance resource path.
const instanceTemplate = "projects/{project}/zones/{zone}/instances/{instance}"

var instanceCollection = resource.NewCollection(instanceTemplate)

// instanceMessage is the request schema for creating an instance. The name
// field is the resource path and is supplied by the combined resource
// argument rather than a generated flag.
func instanceMessage() *schema.Message {
	return &schema.Message{
		Name: "Instance",
		Fields: []*schema.Field{
			{Name: "name", Kind: schema.StringKind, ResourcePath: true},
			{Name: "description", Kind: schema.StringKind, Doc: "Human readable description of the instance."},
			{Name: "machine_type", Kind: schema.StringKind, Required: true, Doc: "Machine type for the new instance."},
			{Name: "network_tier", Kind: schema.EnumKind, Doc: "Network tier for the instance's external connectivity.",
				Enum: &schema.Enum{Name: "NetworkTier", Values: []string{"STANDARD", "PREMIUM"}}},
			{Name: "tags", Kind: schema.StringKind, Repeated: true, Doc: "Network tags applied to the instance."},
			{Name: "enable_display", Kind: schema.BoolKind, Doc: "Enable the virtual display device."},
			{Name: "scheduling", Kind: schema.MessageKind, Message: &schema.Message{
				Name: "Scheduling",
				Fields: []*schema.Field{
					{Name: "automatic_restart", Kind: schema.BoolKind, Doc: "Restart the instance after host maintenance."},
					{Name: "min_node_cpus", Kind: schema.Int64Kind, Doc: "Minimum CPUs on the sole-tenant node."},
				},
			}},
		},
	}
}

// listRequest is the request schema shared by list methods.
func listRequest() *schema.Message {
	return &schema.Message{
		Name: "ListRequest",
		Fields: []*schema.Field{
			{Name: "page_size", Kind: schema.Int64Kind, Doc: "Maximum number of results per page."},
			{Name: "filter", Kind: schema.StringKind, Doc: "Server-side filter expression."},
		},
	}
}

func computeService(endpoint string) *schema.Service {
	return &schema.Service{
		Name:     "compute",
		Endpoint: endpoint,
		Methods: map[string]*schema.Method{
			"instances.insert": {
				Name:    "instances.insert",
				Verb:    http.MethodPost,
				Path:    apiVersion + "/projects/{project}/zones/{zone}/instances",
				Request: instanceMessage(),
				LRO:     true,
			},
			"instances.get": {
				Name: "instances.get",
				Verb: http.MethodGet,
				Path: apiVersion + "/" + instanceTemplate,
			},
			"instances.delete": {
				Name: "instances.delete",
				Verb: http.MethodDelete,
				Path: apiVersion + "/" + instanceTemplate,
				LRO:  true,
			},
			"instances.list": {
				Name:    "instances.list",
				Verb:    http.MethodGet,
				Path:    apiVersion + "/projects/{project}/zones/{zone}/instances",
				Request: listRequest(),
			},
			"operations.list": {
				Name:    "operations.list",
				Verb:    http.MethodGet,
				Path:    apiVersion + "/projects/{project}/operations",
				Request: listRequest(),
			},
		},
	}
}

func sourceService(endpoint string) *schema.Service {
	return &schema.Service{
		Name:     "sourcerepo",
		Endpoint: endpoint,
		Methods: map[string]*schema.Method{
			"repos.list": {
				Name:    "repos.list",
				Verb:    http.MethodGet,
				Path:    apiVersion + "/projects/{project}/repos",
				Request: listRequest(),
			},
		},
	}
}
