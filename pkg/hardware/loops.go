package hardware

import (
	"context"
	"fmt"
	"time"

	"github.com/team5607/go-controller/pkg/ina219"
	"github.com/team5607/go-controller/pkg/screen"
	"github.com/team5607/go-controller/pkg/sparkmax"
)

const (
	// SPARK MAX controllers disable their outputs 100ms after the last
	// heartbeat.
	heartbeatPeriod = 25 * time.Millisecond
	batteryPeriod   = time.Second

	batteryShuntOhms  = 0.1
	batteryMaxCurrent = 3.2

	lowBatteryVoltage = 11.5
	lowBatteryNotice  = "LOW BATTERY"
)

func (h *Hardware) loopSendingHeartbeat(ctx context.Context) {
	defer h.loopsDone.Done()
	ticker := time.NewTicker(heartbeatPeriod)
	defer ticker.Stop()

	failing := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		err := h.bus.Send(sparkmax.HeartbeatFrame(h.motorIDs()))
		if err != nil && !failing {
			h.log.Errorw("CAN heartbeat failed", "error", err)
			screen.SetNotice("CAN DOWN", screen.LevelErr)
		} else if err == nil && failing {
			h.log.Info("CAN heartbeat recovered")
			screen.ClearNotice("CAN DOWN")
		}
		failing = err != nil
	}
}

func (h *Hardware) loopReadingBattery(ctx context.Context) {
	defer h.loopsDone.Done()
	var pm ina219.Interface
	defer func() {
		if pm != nil {
			_ = pm.Close()
		}
	}()

	ticker := time.NewTicker(batteryPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if pm == nil {
			var err error
			pm, err = openBatteryMonitor(h.cfg.BatteryDevice)
			if err != nil {
				h.log.Debugw("Battery monitor unavailable", "error", err)
				continue
			}
		}
		v, err := pm.ReadBusVoltage()
		if err != nil {
			h.log.Warnw("Failed to read battery voltage, reopening", "error", err)
			_ = pm.Close()
			pm = nil
			continue
		}
		h.setBatteryVoltage(v)
		screen.SetLine("batt", fmt.Sprintf("%.2fV", v))
		if v < lowBatteryVoltage {
			screen.SetNotice(lowBatteryNotice, screen.LevelErr)
		} else {
			screen.ClearNotice(lowBatteryNotice)
		}
	}
}

func openBatteryMonitor(device string) (ina219.Interface, error) {
	pm, err := ina219.NewI2C(device, ina219.BatteryAddr)
	if err != nil {
		return nil, err
	}
	if err := pm.Configure(batteryShuntOhms, batteryMaxCurrent); err != nil {
		_ = pm.Close()
		return nil, err
	}
	return pm, nil
}
