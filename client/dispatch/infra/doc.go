// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - ChanPool: semáforo simples para limitar chamadas simultâneas
//   - HTTPTransport: uma conexão net/http nova por chamada, sem keep-alive
//   - PaceStore: pacing por base URL usando golang.org/x/time/rate
//   - MemoryStatsStore, RedisStatsStore, PromStatsStore: estatísticas de despacho
package infra
