// Package refdata holds the closed agent and map enumerations. Identifiers are
// fixed by release order and must match the seeded Agents and Maps tables.
package refdata

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAgent = errors.New("unknown agent")
	ErrUnknownMap   = errors.New("unknown map")
)

type Role string

const (
	RoleController Role = "Controller"
	RoleDuelist    Role = "Duelist"
	RoleInitiator  Role = "Initiator"
	RoleSentinel   Role = "Sentinel"
)

type Agent struct {
	ID   int64
	Name string
	Role Role
}

type Map struct {
	ID   int64
	Name string
}

var agents = []Agent{
	{1, "Brimstone", RoleController},
	{2, "Viper", RoleController},
	{3, "Omen", RoleController},
	{4, "Killjoy", RoleSentinel},
	{5, "Cypher", RoleSentinel},
	{6, "Sova", RoleInitiator},
	{7, "Sage", RoleSentinel},
	{8, "Phoenix", RoleDuelist},
	{9, "Jett", RoleDuelist},
	{10, "Reyna", RoleDuelist},
	{11, "Raze", RoleDuelist},
	{12, "Breach", RoleInitiator},
	{13, "Skye", RoleInitiator},
	{14, "Yoru", RoleDuelist},
	{15, "Astra", RoleController},
	{16, "KAY/O", RoleInitiator},
	{17, "Chamber", RoleSentinel},
	{18, "Neon", RoleDuelist},
	{19, "Fade", RoleInitiator},
	{20, "Harbor", RoleController},
	{21, "Gekko", RoleInitiator},
	{22, "Deadlock", RoleSentinel},
	{23, "Iso", RoleDuelist},
	{24, "Clove", RoleController},
	{25, "Vyse", RoleSentinel},
	{26, "Tejo", RoleInitiator},
	{27, "Waylay", RoleDuelist},
	{28, "Veto", RoleSentinel},
}

var maps = []Map{
	{1, "Bind"},
	{2, "Haven"},
	{3, "Split"},
	{4, "Ascent"},
	{5, "Icebox"},
	{6, "Breeze"},
	{7, "Fracture"},
	{8, "Pearl"},
	{9, "Lotus"},
	{10, "Sunset"},
	{11, "Abyss"},
	{12, "Corrode"},
}

// agentAliases maps spelling variants seen on match pages to canonical names.
var agentAliases = map[string]string{
	"KAYO":  "KAY/O",
	"KAY-O": "KAY/O",
	"KAY O": "KAY/O",
}

var (
	agentsByName map[string]Agent
	mapsByName   map[string]Map
)

func init() {
	agentsByName = make(map[string]Agent, len(agents)+len(agentAliases))
	for _, a := range agents {
		agentsByName[strings.ToUpper(a.Name)] = a
	}
	for alias, canonical := range agentAliases {
		agentsByName[strings.ToUpper(alias)] = agentsByName[strings.ToUpper(canonical)]
	}

	mapsByName = make(map[string]Map, len(maps))
	for _, m := range maps {
		mapsByName[strings.ToUpper(m.Name)] = m
	}
}

// AgentID resolves an agent name, case-insensitively and through known
// aliases, to its fixed identifier.
func AgentID(name string) (int64, error) {
	a, ok := agentsByName[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAgent, name)
	}
	return a.ID, nil
}

// AgentRole resolves an agent name to its role classification.
func AgentRole(name string) (Role, error) {
	a, ok := agentsByName[normalize(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAgent, name)
	}
	return a.Role, nil
}

// MapID resolves a map name to its fixed identifier. There is no insert path
// for maps: an unresolvable name is a hard error at the map-record stage.
func MapID(name string) (int64, error) {
	m, ok := mapsByName[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMap, name)
	}
	return m.ID, nil
}

// Agents returns the full agent table, for seeding the persistent store.
func Agents() []Agent {
	out := make([]Agent, len(agents))
	copy(out, agents)
	return out
}

// Maps returns the full map table, for seeding the persistent store.
func Maps() []Map {
	out := make([]Map, len(maps))
	copy(out, maps)
	return out
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
