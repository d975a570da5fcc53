package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFlags(t *testing.T) {
	fs := flag.NewFlagSet("billsplit", flag.ContinueOnError)
	conf, err := loadFlags(fs, []string{
		"-d", "postgres://localhost/bills",
		"-k", "kafka-1:9092, kafka-2:9092,",
		"-ttl", "30m",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", conf.RunAddress)
	assert.Equal(t, "postgres://localhost/bills", conf.DatabaseDSN)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, conf.KafkaBrokers)
	assert.Equal(t, 30*time.Minute, conf.SessionTTL)
	assert.Equal(t, defaultKafkaTopic, conf.KafkaTopic)
	assert.Equal(t, defaultPolicyValue, conf.InsufficientFundsPolicy)
}

func TestMergeConfig(t *testing.T) {
	envConfig := &Config{
		RunAddress:   ":9000",
		KafkaBrokers: []string{"env-kafka:9092"},
	}
	flagsConfig := &Config{
		RunAddress:              "localhost:8080",
		DatabaseDSN:             "postgres://flags",
		KafkaBrokers:            []string{"flag-kafka:9092"},
		SessionTTL:              time.Hour,
		InsufficientFundsPolicy: "mark_failed",
	}

	conf := mergeConfig(envConfig, flagsConfig)

	assert.Equal(t, ":9000", conf.RunAddress, "env wins over flags")
	assert.Equal(t, "postgres://flags", conf.DatabaseDSN)
	assert.Equal(t, []string{"env-kafka:9092"}, conf.KafkaBrokers)
	assert.Equal(t, time.Hour, conf.SessionTTL)
	assert.Equal(t, "mark_failed", conf.InsufficientFundsPolicy)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseDSN:          "postgres://localhost/bills",
		JWTUserSecret:        "secret",
		SocialServiceAddress: "http://social:8081",
		SessionTTL:           time.Hour,
	}
	require.NoError(t, valid.validate())

	noDSN := valid
	noDSN.DatabaseDSN = ""
	require.Error(t, noDSN.validate())

	noSecret := valid
	noSecret.JWTUserSecret = ""
	require.Error(t, noSecret.validate())

	noSocial := valid
	noSocial.SocialServiceAddress = ""
	require.Error(t, noSocial.validate())

	zeroTTL := valid
	zeroTTL.SessionTTL = 0
	require.Error(t, zeroTTL.validate())
}
