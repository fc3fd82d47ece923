package modbusctrl

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	mbserver "github.com/tbrandon/mbserver"
	"go.uber.org/zap"

	"github.com/Agrid-Dev/boilercalc/internal/device"
	"github.com/Agrid-Dev/boilercalc/internal/ports"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

// Config for the Modbus controller.
type Config struct {
	Addr   string
	UnitID byte // UnitID (Modbus slave/unit ID). Use an integer 1..247.

	Logger *zap.Logger
}

// Holding registers carry the heating-time inputs of the device as scaled
// int16 values. Writing one updates the device table.
type holdingRegister struct {
	key   string
	scale float64
}

var holdingRegisters = []holdingRegister{
	{"ht_initial_temp", 100},
	{"ht_target_temp", 100},
	{"ht_water_volume", 100},
	{"ht_heater_power", 1},
	{"ht_room_temp", 100},
	{"ht_heat_transfer_coeff", 100},
	{"ht_surface_area", 1000},
	{"ht_stainless_steel_volume", 100000},
}

// Input registers hold the heating result for the current holding registers.
const (
	InputStatus       = 0 // StatusInvalid, StatusConverged or StatusTimedOut
	InputElapsedHigh  = 1 // elapsed time in tenths of a second, high word
	InputElapsedLow   = 2
	InputFinalTemp    = 3 // final temperature x100
	inputRegisterSize = 4
)

const (
	StatusInvalid uint16 = iota
	StatusConverged
	StatusTimedOut
)

type Controller struct {
	calc ports.Calculator
	dev  *device.Device
	cfg  Config
	log  *zap.Logger

	serv *mbserver.Server
}

func New(calc ports.Calculator, dev *device.Device, cfg Config) (*Controller, error) {
	if cfg.UnitID == 0 {
		return nil, errors.New("modbus: UnitID is required (non-zero)")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:1502"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{calc: calc, dev: dev, cfg: cfg, log: log.With(zap.String("controller", "modbus"))}, nil
}

// Run starts the Modbus server and registers handlers that apply writes to the
// device immediately and compute input registers on read. It blocks until ctx
// is canceled.
func (c *Controller) Run(ctx context.Context) error {
	serv := mbserver.NewServer()
	c.serv = serv

	// Register handlers BEFORE starting the TCP listener to avoid races inside mbserver
	// between handler registration and the server's goroutines.
	serv.RegisterFunctionHandler(3, c.readHolding)
	serv.RegisterFunctionHandler(4, c.readInput)
	serv.RegisterFunctionHandler(6, c.writeSingle)
	serv.RegisterFunctionHandler(16, c.writeMultiple)

	if err := serv.ListenTCP(c.cfg.Addr); err != nil {
		return fmt.Errorf("mbserver listen tcp %s: %w", c.cfg.Addr, err)
	}
	c.log.Info("modbus listening", zap.String("addr", c.cfg.Addr))

	// Block until ctx.Done()
	<-ctx.Done()
	serv.Close()
	return ctx.Err()
}

// Read Holding Registers (function 3)
func (c *Controller) readHolding(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	start, qty, ex := readRange(frame.GetData(), len(holdingRegisters))
	if ex != nil {
		return []byte{}, ex
	}
	v := c.dev.Values()
	regs := make([]uint16, 0, qty)
	for _, r := range holdingRegisters[start : start+qty] {
		regs = append(regs, encodeScaled(v.Get(r.key), r.scale))
	}
	return registerResponse(regs), &mbserver.Success
}

// Read Input Registers (function 4). Each read runs the heating solver.
func (c *Controller) readInput(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	start, qty, ex := readRange(frame.GetData(), inputRegisterSize)
	if ex != nil {
		return []byte{}, ex
	}
	regs := c.heatingRegisters()
	return registerResponse(regs[start : start+qty]), &mbserver.Success
}

func (c *Controller) heatingRegisters() []uint16 {
	regs := make([]uint16, inputRegisterSize)
	rec, err := c.calc.Run(thermal.SolverHeating, c.dev.Values())
	if err != nil {
		c.log.Debug("heating inputs rejected", zap.Error(err))
		return regs
	}

	name, _ := rec["outcome"].(string)
	outcome, err := thermal.ParseOutcome(name)
	if err != nil {
		c.log.Warn("heating result without outcome", zap.Error(err))
		return regs
	}
	switch outcome {
	case thermal.OutcomeConverged:
		regs[InputStatus] = StatusConverged
	case thermal.OutcomeTimedOut:
		regs[InputStatus] = StatusTimedOut
	}
	secs, _ := rec["heating_seconds"].(float64)
	tenths := uint32(math.Round(secs * 10))
	regs[InputElapsedHigh] = uint16(tenths >> 16)
	regs[InputElapsedLow] = uint16(tenths)
	final, _ := rec["final_temp"].(float64)
	regs[InputFinalTemp] = encodeScaled(final, 100)
	return regs
}

// Write Single Register (function 6)
func (c *Controller) writeSingle(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	data := frame.GetData()
	if len(data) < 4 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	addr := int(binary.BigEndian.Uint16(data[0:2]))
	value := binary.BigEndian.Uint16(data[2:4])
	if addr >= len(holdingRegisters) {
		return []byte{}, &mbserver.IllegalDataAddress
	}

	r := holdingRegisters[addr]
	if err := c.dev.Update(map[string]float64{r.key: decodeScaled(value, r.scale)}); err != nil {
		return []byte{}, &mbserver.IllegalDataValue
	}

	resp := make([]byte, 4)
	copy(resp, data[0:4])
	return resp, &mbserver.Success
}

// Write Multiple Registers (function 16). The whole block is applied or none of it.
func (c *Controller) writeMultiple(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	d := frame.GetData()
	if len(d) < 5 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	start := binary.BigEndian.Uint16(d[0:2])
	quantity := binary.BigEndian.Uint16(d[2:4])
	byteCount := int(d[4])
	if byteCount != int(quantity)*2 || len(d) < 5+byteCount {
		return []byte{}, &mbserver.IllegalDataValue
	}
	if int(start)+int(quantity) > len(holdingRegisters) {
		return []byte{}, &mbserver.IllegalDataAddress
	}

	fields := make(map[string]float64, quantity)
	for i := 0; i < int(quantity); i++ {
		r := holdingRegisters[int(start)+i]
		val := binary.BigEndian.Uint16(d[5+i*2 : 5+i*2+2])
		fields[r.key] = decodeScaled(val, r.scale)
	}
	if err := c.dev.Update(fields); err != nil {
		return []byte{}, &mbserver.IllegalDataValue
	}

	resp := make([]byte, 4)
	binary.BigEndian.PutUint16(resp[0:2], start)
	binary.BigEndian.PutUint16(resp[2:4], quantity)
	return resp, &mbserver.Success
}

func readRange(data []byte, size int) (int, int, *mbserver.Exception) {
	if len(data) < 4 {
		return 0, 0, &mbserver.IllegalDataValue
	}
	start := int(binary.BigEndian.Uint16(data[0:2]))
	qty := int(binary.BigEndian.Uint16(data[2:4]))
	if qty == 0 || qty > 125 {
		return 0, 0, &mbserver.IllegalDataValue
	}
	if start+qty > size {
		return 0, 0, &mbserver.IllegalDataAddress
	}
	return start, qty, nil
}

// registerResponse builds byte count + register bytes.
func registerResponse(regs []uint16) []byte {
	byteCount := len(regs) * 2
	resp := make([]byte, 1+byteCount)
	resp[0] = byte(byteCount)
	for i, r := range regs {
		binary.BigEndian.PutUint16(resp[1+i*2:1+i*2+2], r)
	}
	return resp
}

func encodeScaled(v, scale float64) uint16 {
	r := min(max(int(math.Round(v*scale)), math.MinInt16), math.MaxInt16)
	return uint16(int16(r))
}

func decodeScaled(u uint16, scale float64) float64 {
	return float64(int16(u)) / scale
}
