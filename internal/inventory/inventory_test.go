package inventory_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hostparty/hostparty/internal/inventory"
	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/util/retry"
)

func listedProviders(instances []provider.Instance, records []provider.DNSRecord) (*provider.MockInstanceProvider, *provider.MockDNSProvider) {
	ip := &provider.MockInstanceProvider{
		ListInstancesFunc: func(_ context.Context, _ string) ([]provider.Instance, error) {
			return instances, nil
		},
	}
	dp := &provider.MockDNSProvider{
		ListRecordsFunc: func(_ context.Context, _, _ string) ([]provider.DNSRecord, error) {
			return records, nil
		},
	}
	return ip, dp
}

var fastRetry = []retry.Option{retry.WithMaxRetries(1), retry.WithInitialDelay(time.Millisecond)}

var _ = Describe("GetList", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("joins an instance and a record sharing a label into a complete row", func() {
		instances, dns := listedProviders(
			[]provider.Instance{{ID: "1", Name: "party-abcde", IPAddress: "1.2.3.4", Status: provider.StatusActive}},
			[]provider.DNSRecord{{ID: "r1", SubDomain: "abcde.party", Target: "1.2.3.4", Zone: "example.com"}},
		)

		entries, err := inventory.GetList(ctx, instances, dns, "party", "example.com")
		Expect(err).NotTo(HaveOccurred())

		sorted := inventory.SortEntries(entries)
		Expect(sorted.Complete).To(HaveLen(1))
		Expect(sorted.Complete[0].Cells()).To(Equal([]string{"abcde", "party-abcde", "abcde.party.example.com", "active", "1.2.3.4"}))
		Expect(sorted.OrphanedInstances).To(BeEmpty())
		Expect(sorted.OrphanedRecords).To(BeEmpty())
	})

	It("reports an instance without record as an orphaned instance", func() {
		instances, dns := listedProviders(
			[]provider.Instance{{ID: "2", Name: "party-xyz12", IPAddress: "5.6.7.8", Status: provider.StatusBuilding}},
			nil,
		)

		entries, err := inventory.GetList(ctx, instances, dns, "party", "example.com")
		Expect(err).NotTo(HaveOccurred())

		sorted := inventory.SortEntries(entries)
		Expect(sorted.Complete).To(BeEmpty())
		Expect(sorted.OrphanedInstances).To(HaveLen(1))
		Expect(sorted.OrphanedInstances[0].Cells()).To(Equal([]string{"xyz12", "party-xyz12", "building", "5.6.7.8"}))
	})

	It("reports a record without instance as an orphaned record", func() {
		instances, dns := listedProviders(nil,
			[]provider.DNSRecord{{ID: "r3", SubDomain: "qwert.party", Target: "9.9.9.9", Zone: "example.com"}},
		)

		entries, err := inventory.GetList(ctx, instances, dns, "party", "example.com")
		Expect(err).NotTo(HaveOccurred())

		sorted := inventory.SortEntries(entries)
		Expect(sorted.OrphanedRecords).To(ConsistOf(inventory.OrphanedRecord{Label: "qwert", Domain: "qwert.party.example.com", Target: "9.9.9.9"}))
		Expect(sorted.OrphanedRecords[0].Cells()).To(Equal([]string{"qwert", "qwert.party.example.com", "9.9.9.9"}))
	})

	It("ignores resources outside the namespace", func() {
		instances, dns := listedProviders(
			[]provider.Instance{
				{Name: "party-abcde"},
				{Name: "partyabcde"},
				{Name: "other-abcde"},
				{Name: "party-"},
			},
			[]provider.DNSRecord{
				{SubDomain: "abcde.party", Zone: "example.com"},
				{SubDomain: "abcde.other", Zone: "example.com"},
				{SubDomain: ".party", Zone: "example.com"},
			},
		)

		entries, err := inventory.GetList(ctx, instances, dns, "party", "example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries.Labels()).To(Equal([]string{"abcde"}))
	})

	It("asks the providers for the namespace prefix and suffix", func() {
		var gotPrefix, gotSuffix, gotZone string
		instances := &provider.MockInstanceProvider{
			ListInstancesFunc: func(_ context.Context, prefix string) ([]provider.Instance, error) {
				gotPrefix = prefix
				return nil, nil
			},
		}
		dns := &provider.MockDNSProvider{
			ListRecordsFunc: func(_ context.Context, suffix, zone string) ([]provider.DNSRecord, error) {
				gotSuffix, gotZone = suffix, zone
				return nil, nil
			},
		}

		_, err := inventory.GetList(ctx, instances, dns, "party", "example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(gotPrefix).To(Equal("party-"))
		Expect(gotSuffix).To(Equal(".party"))
		Expect(gotZone).To(Equal("example.com"))
	})

	It("retries listing before giving up", func() {
		calls := 0
		instances := &provider.MockInstanceProvider{
			ListInstancesFunc: func(_ context.Context, _ string) ([]provider.Instance, error) {
				calls++
				return nil, errors.New("503 service unavailable")
			},
		}

		_, err := inventory.GetList(ctx, instances, &provider.MockDNSProvider{}, "party", "example.com", fastRetry...)
		Expect(err).To(MatchError(ContainSubstring("failed to list instances")))
		Expect(calls).To(Equal(2))
	})

	It("stops on the first fatal listing error", func() {
		calls := 0
		dns := &provider.MockDNSProvider{
			ListRecordsFunc: func(_ context.Context, _, _ string) ([]provider.DNSRecord, error) {
				calls++
				return nil, retry.Fatal(errors.New("403 forbidden"))
			},
		}

		_, err := inventory.GetList(ctx, &provider.MockInstanceProvider{}, dns, "party", "example.com", fastRetry...)
		Expect(err).To(MatchError(ContainSubstring("failed to list dns records")))
		Expect(calls).To(Equal(1))
	})
})

var _ = Describe("SortEntries", func() {
	It("keeps insertion order within each class", func() {
		entries := inventory.NewEntries()
		entries.AddInstance("ccccc", provider.Instance{Name: "party-ccccc"})
		entries.AddRecord("aaaaa", provider.DNSRecord{SubDomain: "aaaaa.party", Zone: "example.com"})
		entries.AddInstance("bbbbb", provider.Instance{Name: "party-bbbbb"})
		entries.AddInstance("aaaaa", provider.Instance{Name: "party-aaaaa"})
		entries.AddRecord("ddddd", provider.DNSRecord{SubDomain: "ddddd.party", Zone: "example.com"})

		sorted := inventory.SortEntries(entries)
		Expect(sorted.Complete).To(HaveLen(1))
		Expect(sorted.Complete[0].Label).To(Equal("aaaaa"))
		Expect([]string{sorted.OrphanedInstances[0].Label, sorted.OrphanedInstances[1].Label}).To(Equal([]string{"ccccc", "bbbbb"}))
		Expect(sorted.OrphanedRecords[0].Label).To(Equal("ddddd"))
	})

	It("returns empty, non-nil classes for no entries", func() {
		sorted := inventory.SortEntries(inventory.NewEntries())
		Expect(sorted.Complete).NotTo(BeNil())
		Expect(sorted.Complete).To(BeEmpty())
		Expect(sorted.OrphanedRecords).To(BeEmpty())
		Expect(sorted.OrphanedInstances).To(BeEmpty())
	})

	DescribeTable("merging is independent of the order sides are gathered in",
		func(recordsFirst bool) {
			instances, dns := listedProviders(
				[]provider.Instance{
					{Name: "party-aaaaa", Status: provider.StatusActive, IPAddress: "1.1.1.1"},
					{Name: "party-bbbbb", Status: provider.StatusActive, IPAddress: "2.2.2.2"},
				},
				[]provider.DNSRecord{
					{SubDomain: "bbbbb.party", Zone: "example.com", Target: "2.2.2.2"},
					{SubDomain: "ccccc.party", Zone: "example.com", Target: "3.3.3.3"},
				},
			)
			ctx := context.Background()
			entries := inventory.NewEntries()
			if recordsFirst {
				Expect(inventory.GatherRecords(ctx, entries, dns, "party", "example.com")).To(Succeed())
				Expect(inventory.GatherInstances(ctx, entries, instances, "party")).To(Succeed())
			} else {
				Expect(inventory.GatherInstances(ctx, entries, instances, "party")).To(Succeed())
				Expect(inventory.GatherRecords(ctx, entries, dns, "party", "example.com")).To(Succeed())
			}

			sorted := inventory.SortEntries(entries)
			Expect(sorted.Complete).To(ConsistOf(HaveField("Label", "bbbbb")))
			Expect(sorted.OrphanedInstances).To(ConsistOf(HaveField("Label", "aaaaa")))
			Expect(sorted.OrphanedRecords).To(ConsistOf(HaveField("Label", "ccccc")))
		},
		Entry("instances first", false),
		Entry("records first", true),
	)
})
