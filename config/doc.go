//Package config reads the run files of gohitran, in YAML or TOML, the settings given
//through the environment, and gas states produced by chemical equilibrium codes.

package config
