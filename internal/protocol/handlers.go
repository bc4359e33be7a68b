package protocol

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cortexwear/cortexd/internal/store"
	"github.com/cortexwear/cortexd/internal/wifi"
)

func decode[T any](payload string) T {
	var v T
	if payload != "" {
		_ = json.Unmarshal([]byte(payload), &v)
	}
	return v
}

func cmdPing(d *Dispatcher, payload string, ctx StatusContext) string {
	return "RSP:pong"
}

func cmdStatus(d *Dispatcher, payload string, ctx StatusContext) string {
	stats, err := d.store.Stats()
	if err != nil {
		return fmt.Sprintf("ERR:status:%v", err)
	}

	status := map[string]any{
		"app_state":        ctx.AppState,
		"uptime_s":         ctx.UptimeSeconds,
		"disk_free_gb":     ctx.DiskFreeGB,
		"ble_connected":    ctx.BLEConnected,
		"active_session":   nilIfEmpty(d.ActiveSessionID()),
		"notes_total":      stats.NotesTotal,
		"activities_total": stats.ActivitiesTotal,
		"searches_total":   stats.SearchesTotal,
		"active_sessions":  stats.ActiveSessions,
		"sessions_total":   stats.SessionsTotal,
		"projects_total":   stats.ProjectsTotal,
		"files_total":      stats.FilesTotal,
	}
	body, _ := json.Marshal(status)
	return "RSP:status:" + string(body)
}

func cmdNote(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[notePayload](payload)
	if p.Content == "" {
		return "ERR:note:missing content field"
	}
	id, err := d.store.InsertNote(store.Note{
		Content:   p.Content,
		Tags:      p.Tags,
		Project:   p.Project,
		NoteType:  orDefault(p.Type, "note"),
		Source:    "ble",
		SessionID: d.ActiveSessionID(),
	})
	if err != nil {
		return fmt.Sprintf("ERR:note:%v", err)
	}
	return fmt.Sprintf("ACK:note:%d", id)
}

func cmdActivity(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[activityPayload](payload)
	if p.Program == "" {
		return "ERR:activity:missing program field"
	}
	id, err := d.store.InsertActivity(store.Activity{
		Program:     p.Program,
		Details:     p.Details,
		FilePath:    p.FilePath,
		Project:     p.Project,
		SessionID:   d.ActiveSessionID(),
		DurationMin: p.DurationMin,
	})
	if err != nil {
		return fmt.Sprintf("ERR:activity:%v", err)
	}
	return fmt.Sprintf("ACK:activity:%d", id)
}

func cmdSearch(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[searchPayload](payload)
	if p.Query == "" {
		return "ERR:search:missing query field"
	}
	id, err := d.store.InsertSearch(store.Search{
		Query:     p.Query,
		Source:    p.Source,
		URL:       p.URL,
		Project:   p.Project,
		SessionID: d.ActiveSessionID(),
	})
	if err != nil {
		return fmt.Sprintf("ERR:search:%v", err)
	}
	return fmt.Sprintf("ACK:search:%d", id)
}

func cmdSessionStart(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[sessionStartPayload](payload)
	id, err := d.store.StartSession(p.AIPlatform, p.Hostname, p.OSInfo)
	if err != nil {
		return fmt.Sprintf("ERR:session_start:%v", err)
	}
	d.mu.Lock()
	d.activeSessionID = id
	d.mu.Unlock()
	return "ACK:session:" + id
}

func cmdSessionEnd(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[sessionEndPayload](payload)
	sessionID := p.SessionID
	if sessionID == "" {
		sessionID = d.ActiveSessionID()
	}
	if sessionID == "" {
		return "ERR:session_end:no active session"
	}

	ok, err := d.store.EndSession(sessionID, p.Summary, p.Projects)
	if err != nil {
		return fmt.Sprintf("ERR:session_end:%v", err)
	}

	d.mu.Lock()
	if sessionID == d.activeSessionID {
		d.activeSessionID = ""
	}
	d.mu.Unlock()

	if !ok {
		return "ERR:session_end:session not found or already ended"
	}
	return "ACK:session_end:" + sessionID
}

func cmdGetContext(d *Dispatcher, payload string, ctx StatusContext) string {
	c, err := d.store.GetContext()
	if err != nil {
		return fmt.Sprintf("ERR:get_context:%v", err)
	}
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("ERR:get_context:%v", err)
	}
	return "RSP:context:" + string(body)
}

func cmdProjectUpsert(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[projectUpsertPayload](payload)
	if p.Tag == "" {
		return "ERR:project_upsert:missing tag field"
	}
	tag, err := d.store.UpsertProject(store.Project{
		Tag:           p.Tag,
		Name:          p.Name,
		Status:        orDefault(p.Status, "active"),
		Priority:      p.Priority,
		Description:   p.Description,
		Collaborators: p.Collaborators,
	})
	if err != nil {
		return fmt.Sprintf("ERR:project_upsert:%v", err)
	}
	return "ACK:project:" + tag
}

func cmdComputerReg(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[computerRegPayload](payload)
	if p.Hostname == "" {
		return "ERR:computer_reg:missing hostname field"
	}
	hostname, err := d.store.RegisterComputer(store.Computer{
		Hostname: p.Hostname,
		OS:       p.OS,
		CPU:      p.CPU,
		GPU:      p.GPU,
		RAMGB:    p.RAMGB,
		Notes:    p.Notes,
	})
	if err != nil {
		return fmt.Sprintf("ERR:computer_reg:%v", err)
	}
	return "ACK:computer:" + hostname
}

func cmdPeopleUpsert(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[peopleUpsertPayload](payload)
	if p.ID == "" {
		return "ERR:people_upsert:missing id field"
	}
	id, err := d.store.UpsertPerson(store.Person{
		ID:       p.ID,
		Name:     p.Name,
		Role:     p.Role,
		Email:    p.Email,
		Projects: p.Projects,
		Notes:    p.Notes,
	})
	if err != nil {
		return fmt.Sprintf("ERR:people_upsert:%v", err)
	}
	return "ACK:people:" + id
}

func cmdQuery(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[queryPayload](payload)
	if p.Table == "" {
		return "ERR:query:invalid or missing table"
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.store.Query(p.Table, p.Filters, p.OrderBy, limit)
	if err != nil {
		return fmt.Sprintf("ERR:query:%v", err)
	}
	body, err := store.MarshalQueryResults(rows)
	if err != nil {
		return fmt.Sprintf("ERR:query:%v", err)
	}
	return "RSP:query:" + string(body)
}

func cmdWifiStatus(d *Dispatcher, payload string, ctx StatusContext) string {
	st := wifi.Status(context.Background(), "")
	body, _ := json.Marshal(st)
	return "RSP:wifi_status:" + string(body)
}

func cmdWifiScan(d *Dispatcher, payload string, ctx StatusContext) string {
	networks, err := wifi.Scan(context.Background())
	if err != nil {
		return fmt.Sprintf("ERR:wifi_scan:%v", err)
	}
	body, _ := json.Marshal(networks)
	return "RSP:wifi_scan:" + string(body)
}

func cmdWifiConfig(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[wifiConfigPayload](payload)
	if p.SSID == "" {
		return "ERR:wifi_config:missing ssid"
	}
	result, err := wifi.Configure(context.Background(), p.SSID, p.Password)
	if err != nil {
		return fmt.Sprintf("ERR:wifi_config:%v", err)
	}
	body, _ := json.Marshal(result)
	return "RSP:wifi_config:" + string(body)
}

func cmdFileRegister(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[fileRegisterPayload](payload)
	if p.Filename == "" {
		return "ERR:file_register:missing filename field"
	}
	id, err := d.store.InsertFile(store.File{
		Filename:    p.Filename,
		Category:    p.Category,
		Description: p.Description,
		Tags:        p.Tags,
		Project:     p.Project,
		MimeType:    p.MimeType,
		SizeBytes:   p.SizeBytes,
		Source:      orDefault(p.Source, "upload"),
		SessionID:   d.ActiveSessionID(),
	})
	if err != nil {
		return fmt.Sprintf("ERR:file_register:%v", err)
	}
	return fmt.Sprintf("ACK:file_register:%d", id)
}

func cmdFileList(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[fileListPayload](payload)
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	files, err := d.store.ListFiles(p.Category, p.Project, limit)
	if err != nil {
		return fmt.Sprintf("ERR:file_list:%v", err)
	}
	body, err := json.Marshal(files)
	if err != nil {
		return fmt.Sprintf("ERR:file_list:%v", err)
	}
	return "RSP:file_list:" + string(body)
}

func cmdFileSearch(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[fileSearchPayload](payload)
	if p.Query == "" {
		return "ERR:file_search:missing query field"
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	files, err := d.store.SearchFiles(p.Query, limit)
	if err != nil {
		return fmt.Sprintf("ERR:file_search:%v", err)
	}
	body, err := json.Marshal(files)
	if err != nil {
		return fmt.Sprintf("ERR:file_search:%v", err)
	}
	return "RSP:file_search:" + string(body)
}

func cmdFileDelete(d *Dispatcher, payload string, ctx StatusContext) string {
	p := decode[fileDeletePayload](payload)
	if p.ID == 0 {
		return "ERR:file_delete:missing id field"
	}
	category, found, err := d.store.FileCategory(p.ID)
	if err != nil {
		return fmt.Sprintf("ERR:file_delete:%v", err)
	}
	if !found {
		return fmt.Sprintf("ERR:file_delete:file not found: %d", p.ID)
	}
	if category != "recordings" && category != "uploads" {
		return "ERR:file_delete:deletion not allowed for category: " + category
	}
	ok, err := d.store.DeleteFile(p.ID)
	if err != nil {
		return fmt.Sprintf("ERR:file_delete:%v", err)
	}
	if !ok {
		return fmt.Sprintf("ERR:file_delete:file not found: %d", p.ID)
	}
	return fmt.Sprintf("ACK:file_delete:%d", p.ID)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
