package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ConfigTestSuite) writeFile(body string) string {
	path := filepath.Join(s.dir, "ahara.yaml")
	require.NoError(s.T(), os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	// Arrange
	path := s.writeFile("app:\n  name: ahara\n")

	// Act
	cfg, err := Load(path)

	// Assert
	s.Require().NoError(err)
	s.Equal(0.5, cfg.Scoring.AyurvedicWeight)
	s.Equal(0.5, cfg.Scoring.NutritionalWeight)
	s.Equal(500.0, cfg.Scoring.CalorieTarget)
	s.Equal(20.0, cfg.Scoring.ProteinTarget)
	s.Empty(cfg.Scoring.Season)
	s.Equal(AllergyMatchingSubstring, cfg.Composer.AllergyMatching)
	s.Equal(8012, cfg.Server.Port)
	s.Equal(10*time.Second, cfg.Server.ShutdownTimeout)
	s.Equal("0.0.0.0:8012", cfg.Addr())
}

func (s *ConfigTestSuite) TestFileOverrides() {
	// Arrange
	path := s.writeFile(`
server:
  port: 9100
scoring:
  ayurvedic_weight: 0.7
  nutritional_weight: 0.3
  season: grishma
composer:
  allergy_matching: exact
`)

	// Act
	cfg, err := Load(path)

	// Assert
	s.Require().NoError(err)
	s.Equal(9100, cfg.Server.Port)
	s.Equal(0.7, cfg.Scoring.AyurvedicWeight)
	s.Equal("grishma", cfg.Scoring.Season)
	s.Equal(AllergyMatchingExact, cfg.Composer.AllergyMatching)
}

func (s *ConfigTestSuite) TestEnvOverridesFile() {
	// Arrange
	path := s.writeFile("server:\n  port: 9100\n")
	s.T().Setenv("AHARA_SERVER_PORT", "9200")

	// Act
	cfg, err := Load(path)

	// Assert
	s.Require().NoError(err)
	s.Equal(9200, cfg.Server.Port)
}

func (s *ConfigTestSuite) TestRejectsUnknownSeason() {
	path := s.writeFile("scoring:\n  season: monsoonish\n")

	_, err := Load(path)

	s.Require().Error(err)
	s.Contains(err.Error(), "scoring.season")
}

func (s *ConfigTestSuite) TestRejectsUnknownAllergyMode() {
	path := s.writeFile("composer:\n  allergy_matching: fuzzy\n")

	_, err := Load(path)

	s.Require().Error(err)
	s.Contains(err.Error(), "allergy_matching")
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:      AppConfig{Name: "ahara"},
			Server:   ServerConfig{Transport: "http", Port: 8012},
			Storage:  StorageConfig{DBPath: "x.db"},
			Scoring:  ScoringConfig{AyurvedicWeight: 0.5, NutritionalWeight: 0.5, CalorieTarget: 500, ProteinTarget: 20},
			Composer: ComposerConfig{AllergyMatching: AllergyMatchingSubstring},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"negative weight", func(c *Config) { c.Scoring.AyurvedicWeight = -0.1 }},
		{"zero calorie target", func(c *Config) { c.Scoring.CalorieTarget = 0 }},
		{"stdio transport", func(c *Config) { c.Server.Transport = "stdio" }},
		{"missing db path", func(c *Config) { c.Storage.DBPath = "" }},
	}

	base := valid()
	assert.NoError(t, base.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
