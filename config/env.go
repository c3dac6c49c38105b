/*
 * env.go, part of gohitran.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

//EnvPrefix is the prefix of the environment variables read by LoadEnv.
const EnvPrefix = "GOHITRAN"

//Defaults for Env. They must match the struct tags.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

//Env holds the settings taken from the environment. Each field is read from
//GOHITRAN_<name>.
type Env struct {
	//LogLevel is the zerolog level: trace, debug, info, warn or error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	//LogFormat is console or json.
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
	//Workers overrides the number of synthesis goroutines, if positive.
	Workers int `envconfig:"WORKERS" default:"0"`
	//PartitionFolder overrides the partition_folder of run files.
	PartitionFolder string `envconfig:"PARTITION_FOLDER"`
	//Database is the run archive used when a run file doesn't name one.
	Database string `envconfig:"DATABASE"`
}

//LoadDotEnv loads environment variables from a .env file, without overriding
//the ones already set. If path is empty, ".env" is used. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

//LoadEnv loads the dotenv file, if any, and then reads the settings from the environment.
func LoadEnv(dotenv string) (Env, error) {
	if err := LoadDotEnv(dotenv); err != nil {
		return Env{}, err
	}
	var E Env
	if err := envconfig.Process(EnvPrefix, &E); err != nil {
		return Env{}, fmt.Errorf("reading environment: %w", err)
	}
	E.LogLevel = strings.ToLower(E.LogLevel)
	E.LogFormat = strings.ToLower(E.LogFormat)
	return E, nil
}
