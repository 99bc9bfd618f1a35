package app

import "github.com/shandysiswandi/contactrelay/internal/pkg/config"

// configDefaults holds the value of every key when neither the config file
// nor the environment sets it.
var configDefaults = map[string]any{
	"app.name":                                    "contactrelay",
	"app.server.port":                             "3000",
	"app.server.cors":                             "",
	"app.server.http.read_timeout_seconds":        15,
	"app.server.http.read_header_timeout_seconds": 5,
	"app.server.http.write_timeout_seconds":       30,
	"app.server.http.idle_timeout_seconds":        60,
	"app.maintenance.endpoints":                   "",
	"instrument.enabled":                          false,
	"instrument.service_name":                     "contactrelay",
	"instrument.service_version":                  "1.0.0",
	"instrument.env":                              "development",
	"instrument.otlp_endpoint":                    "localhost:4317",
	"instrument.otlp_secure":                      false,
	"instrument.trace_sample_ratio":               1.0,
	"instrument.metric_interval_seconds":          15,
	"instrument.log_level":                        "info",
	"instrument.log_mask_fields":                  "password,authorization,cookie,email",
	"mail.host":                                   "smtp.gmail.com",
	"mail.port":                                   587,
	"mail.username":                               "",
	"mail.password":                               "",
	"mail.from":                                   "",
	"mail.to":                                     "",
	"mail.timeout_seconds":                        15,
	"relay.enabled":                               true,
	"relay.url":                                   "",
	"relay.timeout_seconds":                       10,
	"modules.contact.site_name":                   "Portfolio Website",
}

// legacyEnv maps keys to the environment names used by existing deployments.
var legacyEnv = map[string][]string{
	"app.server.port": {"PORT"},
	"app.server.cors": {"FRONTEND_URL"},
	"mail.username":   {"EMAIL_USER"},
	"mail.password":   {"EMAIL_PASS"},
	"mail.from":       {"EMAIL_USER"},
	"mail.to":         {"RECEIVING_EMAIL"},
	"relay.url":       {"GOOGLE_SHEET_URL"},
}

func configOptions(envFile string) []config.Option {
	var opts []config.Option
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	for key, value := range configDefaults {
		opts = append(opts, config.WithDefault(key, value))
		opts = append(opts, config.WithEnvBinding(key, legacyEnv[key]...))
	}
	return opts
}
