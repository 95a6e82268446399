package config

import "strconv"

type field struct {
	key string
	set func(*Config, string) error
	get func(*Config) string
}

var fields = []field{
	stringField("base_url", func(c *Config) *string { return &c.BaseURL }),
	boolField("shortener.enabled", func(c *Config) *bool { return &c.Shortener.Enabled }),
	stringField("shortener.endpoint", func(c *Config) *string { return &c.Shortener.Endpoint }),
	durationField("shortener.timeout", func(c *Config) *Duration { return &c.Shortener.Timeout }),
	stringField("cache.backend", func(c *Config) *string { return &c.Cache.Backend }),
	stringField("cache.dir", func(c *Config) *string { return &c.Cache.Dir }),
	durationField("cache.ttl", func(c *Config) *Duration { return &c.Cache.TTL }),
	stringField("cache.redis_addr", func(c *Config) *string { return &c.Cache.RedisAddr }),
	stringField("cache.redis_password", func(c *Config) *string { return &c.Cache.RedisPassword }),
	intField("cache.redis_db", func(c *Config) *int { return &c.Cache.RedisDB }),
	stringField("layout.policy", func(c *Config) *string { return &c.Layout.Policy }),
	stringField("server.addr", func(c *Config) *string { return &c.Server.Addr }),
}

func lookupField(key string) (field, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

func stringField(key string, ptr func(*Config) *string) field {
	return field{
		key: key,
		set: func(c *Config, v string) error { *ptr(c) = v; return nil },
		get: func(c *Config) string { return *ptr(c) },
	}
}

func boolField(key string, ptr func(*Config) *bool) field {
	return field{
		key: key,
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			*ptr(c) = b
			return nil
		},
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
	}
}

func intField(key string, ptr func(*Config) *int) field {
	return field{
		key: key,
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*ptr(c) = n
			return nil
		},
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
	}
}

func durationField(key string, ptr func(*Config) *Duration) field {
	return field{
		key: key,
		set: func(c *Config, v string) error { return ptr(c).UnmarshalText([]byte(v)) },
		get: func(c *Config) string { return formatDuration(ptr(c).Duration) },
	}
}
