package mqttctrl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Agrid-Dev/boilercalc/internal/device"
	"github.com/Agrid-Dev/boilercalc/internal/params"
	"github.com/Agrid-Dev/boilercalc/internal/ports"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

type Config struct {
	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS             byte
	RetainDefaults  bool
	PublishInterval time.Duration

	Username string
	Password string

	Logger *zap.Logger
}

type Controller struct {
	calc ports.Calculator
	dev  *device.Device
	cfg  Config
	log  *zap.Logger

	client mqtt.Client
}

func New(calc ports.Calculator, dev *device.Device, cfg Config) (*Controller, error) {
	// ---- defaults ----

	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}

	if dev == nil || dev.ID == "" {
		return nil, errors.New("mqtt: device ID is required")
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "boilercalc/" + dev.ID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "boilercalc-" + dev.ID
	}
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = 1 * time.Second
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		calc: calc,
		dev:  dev,
		cfg:  cfg,
		log:  log.With(zap.String("controller", "mqtt")),
	}, nil
}

func (c *Controller) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(c.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	// Subscribe when connected/reconnected.
	opts.OnConnect = func(cl mqtt.Client) {
		subs := map[string]byte{
			c.topic("calc/+"): c.cfg.QoS,
			c.topic("set/+"):  c.cfg.QoS,
		}
		token := cl.SubscribeMultiple(subs, c.onMessage)
		token.Wait()
		if err := token.Error(); err != nil {
			c.log.Error("subscribe failed", zap.Error(err))
		}
	}

	c.client = mqtt.NewClient(opts)
	tok := c.client.Connect()
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	c.log.Info("mqtt connected", zap.String("broker", c.cfg.BrokerURL), zap.String("base_topic", c.cfg.BaseTopic))

	// Publish loop: publish the parameter table on interval, only when changed.
	ticker := time.NewTicker(c.cfg.PublishInterval)
	defer ticker.Stop()

	last := c.publishDefaults()

	for {
		select {
		case <-ctx.Done():
			c.client.Disconnect(250)
			return ctx.Err()

		case <-ticker.C:
			if cur := c.dev.Values(); !maps.Equal(cur, last) {
				last = c.publishDefaults()
			}
		}
	}
}

func (c *Controller) publishDefaults() params.Values {
	v := c.dev.Values()
	b, _ := json.Marshal(v)
	c.client.Publish(c.topic("defaults"), c.cfg.QoS, c.cfg.RetainDefaults, b)
	return v
}

// Command payload format: {"value": ...}
type valueReq[T any] struct {
	Value *T `json:"value"`
}

func (c *Controller) onMessage(_ mqtt.Client, msg mqtt.Message) {
	// topic format: <base>/calc/<solver> or <base>/set/<key>
	t := msg.Topic()
	base := strings.TrimRight(c.cfg.BaseTopic, "/") + "/"
	if !strings.HasPrefix(t, base) {
		return
	}
	kind, name, ok := strings.Cut(strings.TrimPrefix(t, base), "/")
	if !ok {
		return
	}

	switch kind {
	case "calc":
		solver, err := thermal.ParseSolver(name)
		if err != nil {
			c.log.Debug("ignoring calc request", zap.String("topic", t), zap.Error(err))
			return
		}
		c.handleCalc(solver, msg.Payload())

	case "set":
		v, err := decodeValueStrict[float64](msg.Payload())
		if err != nil {
			c.log.Debug("ignoring set command", zap.String("topic", t), zap.Error(err))
			return
		}
		if err := c.dev.Update(map[string]float64{name: v}); err != nil {
			c.log.Info("rejected set command", zap.String("key", name), zap.Error(err))
		}
	}
}

func (c *Controller) handleCalc(solver thermal.Solver, payload []byte) {
	reqID, fields, err := decodeCalcRequest(payload)
	if reqID == "" {
		reqID = uuid.NewString()
	}

	var rec ports.Record
	if err == nil {
		var values params.Values
		values, err = c.dev.Resolve(solver, fields)
		if err == nil {
			rec, err = c.calc.Run(solver, values)
		}
	}
	if err != nil {
		rec = ports.Record{"error": err.Error()}
	}

	rec["device_id"] = c.dev.ID
	rec["request_id"] = reqID
	rec["solver"] = solver.String()
	b, _ := json.Marshal(rec)
	c.client.Publish(c.topic("result/"+solver.String()), c.cfg.QoS, false, b)
}

// decodeCalcRequest reads {"request_id": "...", "<field>": <number>, ...}.
// An empty payload means "use the device values as they are".
func decodeCalcRequest(b []byte) (string, map[string]float64, error) {
	fields := map[string]float64{}
	if len(bytes.TrimSpace(b)) == 0 {
		return "", fields, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return "", nil, fmt.Errorf("invalid json: %w", err)
	}
	var reqID string
	if id, ok := raw["request_id"].(string); ok {
		reqID = id
		delete(raw, "request_id")
	}
	for k, v := range raw {
		f, err := params.ParseFloat(v)
		if err != nil {
			return reqID, nil, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = f
	}
	return reqID, fields, nil
}

func (c *Controller) topic(suffix string) string {
	return strings.TrimRight(c.cfg.BaseTopic, "/") + "/" + suffix
}

func decodeValueStrict[T any](b []byte) (T, error) {
	var zero T
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var req valueReq[T]
	if err := dec.Decode(&req); err != nil {
		return zero, err
	}
	if req.Value == nil {
		return zero, errors.New("missing field 'value'")
	}
	return *req.Value, nil
}
