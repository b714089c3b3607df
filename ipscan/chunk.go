// Package ipscan implements the IP scanner stage (spec.md §4.5): partition
// the IPv4 space into chunks, drop reserved blocks, distribute chunks
// across machines, probe reachable hosts on configured ports, and record
// (domain, ip, port, status) rows. Grounded on the teacher's CIDR/
// reserved-address logic in parse.go (isPrivateAddr), generalized into an
// explicit chunk-partitioning scheme this project adds since the teacher
// never partitioned the address space itself.
package ipscan

import "fmt"

// Chunk is one IPv4 octet-range descriptor: all addresses with first octet
// in [ALo,AHi], second in [BLo,BHi], and so on.
type Chunk struct {
	Index                  int
	ALo, AHi               int
	BLo, BHi               int
	CLo, CHi               int
	DLo, DHi               int
}

// CanonicalIP is the chunk's low corner, used for reserved-block checks.
func (c Chunk) CanonicalIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", c.ALo, c.BLo, c.CLo, c.DLo)
}

// IPs enumerates every address in the chunk in a.b.c.d order.
func (c Chunk) IPs() []string {
	ips := make([]string, 0, (c.AHi-c.ALo+1)*(c.BHi-c.BLo+1)*(c.CHi-c.CLo+1)*(c.DHi-c.DLo+1))
	for a := c.ALo; a <= c.AHi; a++ {
		for b := c.BLo; b <= c.BHi; b++ {
			for cc := c.CLo; cc <= c.CHi; cc++ {
				for d := c.DLo; d <= c.DHi; d++ {
					ips = append(ips, fmt.Sprintf("%d.%d.%d.%d", a, b, cc, d))
				}
			}
		}
	}
	return ips
}

// Enumerate builds every chunk for the given chunkSize, which must divide
// 256 (config.Load already asserts this). Each octet is split into
// 256/chunkSize equal partitions, and a chunk is one combination of the
// four octets' partitions.
func Enumerate(chunkSize int) []Chunk {
	parts := 256 / chunkSize
	chunks := make([]Chunk, 0, parts*parts*parts*parts)
	index := 0
	for ai := 0; ai < parts; ai++ {
		for bi := 0; bi < parts; bi++ {
			for ci := 0; ci < parts; ci++ {
				for di := 0; di < parts; di++ {
					chunks = append(chunks, Chunk{
						Index: index,
						ALo:   ai * chunkSize, AHi: ai*chunkSize + chunkSize - 1,
						BLo: bi * chunkSize, BHi: bi*chunkSize + chunkSize - 1,
						CLo: ci * chunkSize, CHi: ci*chunkSize + chunkSize - 1,
						DLo: di * chunkSize, DHi: di*chunkSize + chunkSize - 1,
					})
					index++
				}
			}
		}
	}
	return chunks
}

// DistributeTo keeps only the chunks this machine owns, per spec.md §4.5's
// "chunk_index mod total_machines == machine_id" rule.
func DistributeTo(chunks []Chunk, machineID, totalMachines int) []Chunk {
	if totalMachines <= 1 {
		return chunks
	}
	var mine []Chunk
	for _, c := range chunks {
		if c.Index%totalMachines == machineID {
			mine = append(mine, c)
		}
	}
	return mine
}
