// Package mqtt provides MQTT client connectivity for Lumen Core.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Lumen Core uses MQTT as the bridge between playback engines and the
// compiler. An engine publishes a compile request naming a template and
// a playback window; Core compiles the plan and publishes the channel
// segments back on a per-request result topic.
//
//	Playback Engine ↔ MQTT Broker ↔ Lumen Core
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to compile requests
//	err = client.Subscribe(mqtt.Topics{}.AllCompileRequests(), 1,
//	    func(topic string, payload []byte) error {
//	        return handleCompileRequest(payload)
//	    })
//
//	// Publish a result
//	topic := mqtt.Topics{}.CompileResult("req-abc123")
//	client.Publish(topic, planJSON, 1, false)
package mqtt
