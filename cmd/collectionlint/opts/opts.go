// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package opts

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/collectionlint/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🔧 RootOpts holds the values of the persistent flags
type RootOpts struct {
	// ConfigFile is the --config value, empty to look for a default config in the working directory
	ConfigFile string
	Debug      bool
}

// LoadConfig reads the config file. Without --config the working directory is
// searched for a default name, and no config at all yields an empty Config.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	path := o.ConfigFile
	if path == "" {
		found, ok := config.Find(".")
		if !ok {
			zerolog.Ctx(ctx).Debug().Msg("no config file found, using flags only")
			return &config.Config{}, nil
		}
		path = found
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("config loaded")
	return cfg, nil
}
